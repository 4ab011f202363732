package assistant

import (
	"fmt"
	"log/slog"

	"talkie-assistant/clients/ai_bot"
	"talkie-assistant/config"
	"talkie-assistant/conversation"
	"talkie-assistant/motion"

	"github.com/spf13/afero"
)

func NewSensor(settings config.Motion, fileSys afero.Fs) (motion.Sensor, error) {
	switch settings.Driver {
	case "", "none":
		return motion.NoSensor{}, nil
	case "gpio":
		return motion.NewGPIOSensor(&motion.GPIOConfig{
			FileSys:   fileSys,
			ValuePath: settings.GPIOValuePath,
			ActiveLow: settings.ActiveLow,
		})
	default:
		return nil, fmt.Errorf("unknown motion driver %q", settings.Driver)
	}
}

func NewEngine(settings config.Conversation, logger *slog.Logger) (conversation.Engine, error) {
	switch settings.Engine {
	case "", "hold":
		return &conversation.HoldEngine{Hold: settings.Hold}, nil
	case "bot":
		client, err := ai_bot.NewClient(&ai_bot.Config{
			ApiHost:  settings.BotURL,
			DeviceID: settings.DeviceID,
		})
		if err != nil {
			return nil, fmt.Errorf("create bot client: %w", err)
		}

		return conversation.NewBotEngine(&conversation.BotEngineConfig{
			Client:  client,
			Timeout: settings.Timeout,
			Logger:  logger,
		})
	default:
		return nil, fmt.Errorf("unknown conversation engine %q", settings.Engine)
	}
}
