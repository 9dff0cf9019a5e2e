package bot

import (
	"github.com/rs/zerolog/log"

	"github.com/bwmarrin/discordgo"
)

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

// Response is something the bot can send to a channel on its own,
// outside of an interaction
type Response interface {
	Send(channelid string, discord *discordgo.Session)
}

func (response ResponseString) Send(channelid string, discord *discordgo.Session) {
	if _, err := discord.ChannelMessageSend(channelid, response.string); err != nil {
		log.Error().Err(err).Msg("Could not send message")
	}
}

func (response ResponseEmbed) Send(channelid string, discord *discordgo.Session) {
	if _, err := discord.ChannelMessageSendEmbed(channelid, &response.MessageEmbed); err != nil {
		log.Error().Err(err).Msg("Could not send embed")
	}
}
