package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/watchtogether/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3001,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	membersLimit = configVar[int]{
		envKey:       "SERVER_MEMBERS_LIMIT",
		flagKey:      "members-limit",
		defaultValue: 6,
	}
	emptyRoomTTL = configVar[time.Duration]{
		envKey:       "SERVER_EMPTY_ROOM_TTL",
		flagKey:      "empty-room-ttl",
		defaultValue: 10 * time.Minute,
	}
	catchUpDelay = configVar[time.Duration]{
		envKey:       "SERVER_CATCH_UP_DELAY",
		flagKey:      "catch-up-delay",
		defaultValue: 2 * time.Second,
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(membersLimit.flagKey, membersLimit.defaultValue, "Maximum number of members in a room")
	pflag.Duration(emptyRoomTTL.flagKey, emptyRoomTTL.defaultValue, "How long an empty room is kept before deletion")
	pflag.Duration(catchUpDelay.flagKey, catchUpDelay.defaultValue, "Delay before a late joiner gets its playback sync")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(membersLimit.flagKey, membersLimit.envKey)
	viper.BindEnv(emptyRoomTTL.flagKey, emptyRoomTTL.envKey)
	viper.BindEnv(catchUpDelay.flagKey, catchUpDelay.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(membersLimit.flagKey, membersLimit.defaultValue)
	viper.SetDefault(emptyRoomTTL.flagKey, emptyRoomTTL.defaultValue)
	viper.SetDefault(catchUpDelay.flagKey, catchUpDelay.defaultValue)

	config := &app.AppConfig{
		Host:         viper.GetString(host.flagKey),
		Port:         viper.GetInt(port.flagKey),
		LogLevel:     viper.GetString(logLevel.flagKey),
		MembersLimit: viper.GetInt(membersLimit.flagKey),
		EmptyRoomTTL: viper.GetDuration(emptyRoomTTL.flagKey),
		CatchUpDelay: viper.GetDuration(catchUpDelay.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
