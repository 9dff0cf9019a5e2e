package bot

import (
	"fmt"
	"strings"

	"github.com/JeIIicoe/static-bot/internal/directory"
	"github.com/JeIIicoe/static-bot/internal/fflogs"
	"github.com/JeIIicoe/static-bot/internal/vote"

	"github.com/bwmarrin/discordgo"
)

// Use "teal" color for the bot
const color int = 0x008080

// Custom id prefix for the day buttons of the vote view
const voteCustomIdPrefix = "voteday:"

// Discord allows at most 5 buttons per action row
const buttonsPerRow = 4

func MustRegister() string {
	return "❌ You must register before voting."
}

func PollClosedNotice() string {
	return "❌ This poll is already closed."
}

func NoActivePoll() string {
	return "❌ There is no active poll. Start one with `/voteday`."
}

func VoteNotSaved() string {
	return "❌ Your vote could not be saved. Please try again."
}

func NotRegistered() string {
	return "❌ You're not registered yet. Please use `/register` first."
}

func DirectoryNotAvailable() string {
	return "❌ Couldn't load registered users."
}

func VotesNotLoaded() string {
	return "❌ Couldn't load saved votes."
}

func LinkNotValid(errorMessage string) string {
	return fmt.Sprintf("❌ Invalid FFLogs link: \n> %s", errorMessage)
}

func CharacterNotFound() string {
	return "❌ Couldn't find that character on FFLogs."
}

func RegistrationFailed() string {
	return "❌ Something went wrong while registering. Please try again later."
}

func StatsNotAvailable() string {
	return "❌ Failed to retrieve FFLogs data."
}

func CharacterRegistered(record directory.Record) string {
	return fmt.Sprintf("✅ Registered **%s** on **%s** as **%s**!", record.CharacterName, record.Server, record.Job)
}

// VoteEmbed renders the current state of the poll: one field per day with
// the names of its voters, and a final field with the members that have not
// voted yet. Voters without a directory entry are left out
func VoteEmbed(poll *vote.Poll, dir *directory.Directory) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{Title: "🗳️ Raid Day Voting", Color: color}

	for _, day := range poll.DisplayDays() {
		names := []string{}
		for _, userid := range poll.VotersFor(day) {
			name, err := dir.DisplayName(string(userid))
			if err != nil {
				continue
			}
			names = append(names, "💙 "+name)
		}
		value := "No votes"
		if len(names) > 0 {
			value = strings.Join(names, "\n")
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: string(day), Value: value, Inline: false})
	}

	nonVoters := []string{}
	for _, userid := range poll.NotVoted() {
		name, err := dir.DisplayName(string(userid))
		if err != nil {
			continue
		}
		nonVoters = append(nonVoters, "🔴 "+name)
	}
	value := "None"
	if len(nonVoters) > 0 {
		value = strings.Join(nonVoters, "\n")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "❌ Not Voted Yet", Value: value, Inline: false})

	if poll.Status == vote.Closed {
		if winner, ok := poll.Winner(); ok {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("✅ All votes submitted. Raid scheduled: %s", winner)}
		}
	} else {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "Click buttons to toggle votes. You may vote for multiple days."}
	}
	return &embed
}

// VoteButtons builds the full set of day controls for the poll.
// The controls are rebuilt from scratch on every state change, and come
// out disabled once the poll is closed
func VoteButtons(poll *vote.Poll) []discordgo.MessageComponent {

	disabled := poll.Status == vote.Closed
	components := []discordgo.MessageComponent{}
	row := discordgo.ActionsRow{}
	for _, day := range poll.Days {
		row.Components = append(row.Components, discordgo.Button{
			Label:    string(day),
			Style:    discordgo.PrimaryButton,
			CustomID: voteCustomIdPrefix + string(day),
			Disabled: disabled,
		})
		if len(row.Components) == buttonsPerRow {
			components = append(components, row)
			row = discordgo.ActionsRow{}
		}
	}
	if len(row.Components) > 0 {
		components = append(components, row)
	}
	return components
}

// RaidScheduled is the broadcast sent to the channel when the poll closes
func RaidScheduled(day vote.Day, raidRoleId string) Response {
	return ResponseString{fmt.Sprintf("<@&%s> Raid scheduled for **%s**! 📅", raidRoleId, day)}
}

// CharacterEmbed renders the registered character together with its parses
// for the current savage tier, the previous one, and the ultimates
func CharacterEmbed(record directory.Record, parses fflogs.Parses) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — %s", record.CharacterName, record.Job),
		Description: fmt.Sprintf("Server: **%s**\n[View on FFLogs](%s)", record.Server, record.ProfileUrl),
		Color:       color,
	}

	addSection := func(label string, encounters []fflogs.Encounter) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: label, Value: "\u200b", Inline: false})
		for _, encounter := range encounters {
			value := "No data"
			if parse, ok := parses[encounter.Id]; ok {
				value = fmt.Sprintf("**%d%%** (Spec: %s, Kills: %d)", int(parse.Percentile), parse.Spec, parse.Kills)
			}
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: encounter.Name, Value: value, Inline: false})
		}
	}
	addSection("Current Savage Tier", fflogs.CurrentSavage)
	addSection("Previous Savage Tier", fflogs.PreviousSavage)

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Ultimates", Value: "\u200b", Inline: false})
	for _, summary := range fflogs.AggregateUltimates(parses) {
		value := "No data"
		if summary.Available {
			value = fmt.Sprintf("**%d%%** (Spec: %s, Kills: %d)", int(summary.Percentile), summary.Spec, summary.Kills)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: summary.Name, Value: value, Inline: false})
	}

	return &embed
}
