package bot

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config carries every identifier and credential the bot needs.
// It is read once in main and passed down; nothing below this layer
// looks at the environment
type Config struct {
	DiscordToken       string
	GuildId            string
	RaidRoleId         string
	FflogsClientId     string
	FflogsClientSecret string
	DataDir            string
}

func ReadConfig() Config {
	return Config{
		DiscordToken:       getString("DISCORD_TOKEN"),
		GuildId:            getString("GUILD_ID"),
		RaidRoleId:         getString("RAID_ROLE_ID"),
		FflogsClientId:     getString("FFLOGS_CLIENT_ID"),
		FflogsClientSecret: getString("FFLOGS_CLIENT_SECRET"),
		DataDir:            getStringDefault("DATA_DIR", "data"),
	}
}

func getString(name string) string {
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	log.Fatal().Msg("Required environment variable '" + name + "' is missing")
	return ""
}

func getStringDefault(name string, fallback string) string {
	if viper.IsSet(name) {
		return viper.GetString(name)
	}
	return fallback
}
