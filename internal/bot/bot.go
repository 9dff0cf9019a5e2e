package bot

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/JeIIicoe/static-bot/internal/directory"
	"github.com/JeIIicoe/static-bot/internal/fflogs"
	"github.com/JeIIicoe/static-bot/internal/vote"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Bot wires the directory, the FFLogs client and the vote coordinator
// to the discord gateway
type Bot struct {
	config      Config
	directory   *directory.Directory
	fflogs      *fflogs.Fflogs
	coordinator *vote.Coordinator
	// The coordinator is not reentrant-safe and discord delivers
	// interactions concurrently, so every poll mutation goes through
	// this mutex
	votesMutex sync.Mutex
}

func NewBot(config Config, directory *directory.Directory, fflogs *fflogs.Fflogs, coordinator *vote.Coordinator) Bot {
	return Bot{config: config, directory: directory, fflogs: fflogs, coordinator: coordinator}
}

func (bot *Bot) Run() error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.config.DiscordToken)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}

	// Event handler
	discord.AddHandler(bot.Receive)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	if err := bot.registerCommands(discord); err != nil {
		return err
	}

	// Keep the bot running until there is an os interruption (ctrl + C)
	log.Info().Msg(fmt.Sprintf("READY | %s is online", discord.State.User.Username))
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	return nil
}

func (bot *Bot) registerCommands(discord *discordgo.Session) error {

	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "register",
			Description: "Register your character with job and FFLogs link.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "job",
					Description: "Your main job (e.g. Black Mage)",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "fflogs_link",
					Description: "Link to your FFLogs character profile",
					Required:    true,
				},
			},
		},
		{
			Name:        "whoami",
			Description: "View your character and FFLogs data.",
		},
		{
			Name:        "voteday",
			Description: "Start a vote for best raid day (next 7 days).",
		},
	}

	for _, command := range commands {
		if _, err := discord.ApplicationCommandCreate(discord.State.User.ID, bot.config.GuildId, command); err != nil {
			return fmt.Errorf("could not register command %s: %w", command.Name, err)
		}
		log.Info().Msg(fmt.Sprintf("Registered command /%s in guild %s", command.Name, bot.config.GuildId))
	}
	return nil
}

func (bot *Bot) Receive(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		name := interaction.ApplicationCommandData().Name
		log.Info().Msg(fmt.Sprintf("Received command /%s from user %s", name, interactionUserId(interaction)))
		switch name {
		case "register":
			bot.register(discord, interaction)
		case "whoami":
			bot.whoami(discord, interaction)
		case "voteday":
			bot.voteday(discord, interaction)
		default:
			log.Warn().Msg(fmt.Sprintf("Command /%s is not one of the possible ones", name))
		}
	case discordgo.InteractionMessageComponent:
		customid := interaction.MessageComponentData().CustomID
		if day, ok := strings.CutPrefix(customid, voteCustomIdPrefix); ok {
			bot.toggleVote(discord, interaction, vote.Day(day))
		} else {
			log.Warn().Msg(fmt.Sprintf("Component custom id %s is not understood", customid))
		}
	}
}

func (bot *Bot) register(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {

	if !bot.deferResponse(discord, interaction, true) {
		return
	}

	options := commandOptions(interaction)
	job := options["job"]
	link := options["fflogs_link"]

	// Resolve the link to a character reference
	parseResult := ParseCharacterLink(link)
	if parseResult.parseid != PARSEID_OK {
		log.Info().Msg(fmt.Sprintf("Wrong fflogs link: '%s'. Reason: %s", link, parseResult.errorMessage))
		bot.followup(discord, interaction, LinkNotValid(parseResult.errorMessage))
		return
	}

	// Resolve the reference to a character
	var character fflogs.Character
	var err error
	if parseResult.ref.ById() {
		character, err = bot.fflogs.GetCharacter(parseResult.ref.Id)
	} else {
		character, err = bot.fflogs.FindCharacter(parseResult.ref.Region, parseResult.ref.Server, parseResult.ref.Name)
	}
	if err != nil {
		log.Error().Err(err).Msg("Could not resolve character on FFLogs")
		bot.followup(discord, interaction, CharacterNotFound())
		return
	}

	record := directory.Record{
		CharacterName: character.Name,
		Server:        character.Server,
		Job:           job,
		ProfileUrl:    link,
		CharacterId:   int(character.Id),
	}
	if err := bot.directory.Register(interactionUserId(interaction), record); err != nil {
		log.Error().Err(err).Msg("Could not register user")
		bot.followup(discord, interaction, RegistrationFailed())
		return
	}

	bot.followup(discord, interaction, CharacterRegistered(record))
}

func (bot *Bot) whoami(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {

	if !bot.deferResponse(discord, interaction, true) {
		return
	}

	record, err := bot.directory.Get(interactionUserId(interaction))
	if err != nil {
		bot.followup(discord, interaction, NotRegistered())
		return
	}

	parses, err := bot.fflogs.GetAllParses(fflogs.CharacterId(record.CharacterId))
	if err != nil {
		log.Error().Err(err).Msg("Could not fetch parses")
		bot.followup(discord, interaction, StatsNotAvailable())
		return
	}

	bot.followupEmbed(discord, interaction, CharacterEmbed(record, parses))
}

func (bot *Bot) voteday(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {

	if !bot.deferResponse(discord, interaction, false) {
		return
	}

	// Snapshot of the registered users becomes the eligible voter set
	snapshot, err := bot.directory.Snapshot()
	if err != nil {
		log.Error().Err(err).Msg("Could not snapshot the directory")
		bot.followup(discord, interaction, DirectoryNotAvailable())
		return
	}
	eligibleVoters := make(vote.UserSet, len(snapshot))
	for userid := range snapshot {
		eligibleVoters[vote.UserId(userid)] = struct{}{}
	}

	bot.votesMutex.Lock()
	poll, err := bot.coordinator.Start(eligibleVoters)
	var embed *discordgo.MessageEmbed
	var components []discordgo.MessageComponent
	if err == nil {
		embed = VoteEmbed(poll, bot.directory)
		components = VoteButtons(poll)
	}
	bot.votesMutex.Unlock()

	if err != nil {
		log.Error().Err(err).Msg("Could not start the poll")
		bot.followup(discord, interaction, VotesNotLoaded())
		return
	}

	if _, err := discord.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}); err != nil {
		log.Error().Err(err).Msg("Could not send the vote view")
	}
}

func (bot *Bot) toggleVote(discord *discordgo.Session, interaction *discordgo.InteractionCreate, day vote.Day) {

	userid := interactionUserId(interaction)

	bot.votesMutex.Lock()
	result, err := bot.coordinator.Toggle(vote.UserId(userid), day)
	var embed *discordgo.MessageEmbed
	var components []discordgo.MessageComponent
	var winner vote.Day
	var closed, haveWinner bool
	if err == nil {
		poll := bot.coordinator.Poll()
		embed = VoteEmbed(poll, bot.directory)
		components = VoteButtons(poll)
		if closed = result == vote.ToggledAndClosed; closed {
			winner, haveWinner = poll.Winner()
		}
	}
	bot.votesMutex.Unlock()

	// Rejections never touch the vote view
	if err != nil {
		switch {
		case errors.Is(err, vote.ErrNotEligible):
			bot.respondEphemeral(discord, interaction, MustRegister())
		case errors.Is(err, vote.ErrPollClosed):
			bot.respondEphemeral(discord, interaction, PollClosedNotice())
		case errors.Is(err, vote.ErrNoPoll):
			bot.respondEphemeral(discord, interaction, NoActivePoll())
		default:
			log.Error().Err(err).Msg("Could not apply toggle")
			bot.respondEphemeral(discord, interaction, VoteNotSaved())
		}
		return
	}

	log.Info().Msg(fmt.Sprintf("User %s toggled day %s", userid, day))

	// Replace the whole view with one rebuilt from the new state
	if err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}); err != nil {
		log.Error().Err(err).Msg("Could not update the vote view")
	}

	if closed && haveWinner {
		log.Info().Msg(fmt.Sprintf("All votes submitted, raid scheduled for %s", winner))
		RaidScheduled(winner, bot.config.RaidRoleId).Send(interaction.ChannelID, discord)
	}
}

// Acknowledge the interaction right away; resolving characters and parses
// can take longer than discord's response window
func (bot *Bot) deferResponse(discord *discordgo.Session, interaction *discordgo.InteractionCreate, ephemeral bool) bool {

	data := discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	if err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &data,
	}); err != nil {
		log.Error().Err(err).Msg("Could not defer the interaction response")
		return false
	}
	return true
}

func (bot *Bot) followup(discord *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	if _, err := discord.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{Content: content}); err != nil {
		log.Error().Err(err).Msg("Could not send the followup message")
	}
}

func (bot *Bot) followupEmbed(discord *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := discord.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Error().Err(err).Msg("Could not send the followup embed")
	}
}

func (bot *Bot) respondEphemeral(discord *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	if err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Error().Err(err).Msg("Could not send the ephemeral response")
	}
}

func interactionUserId(interaction *discordgo.InteractionCreate) string {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User.ID
	}
	if interaction.User != nil {
		return interaction.User.ID
	}
	return ""
}

// commandOptions flattens the string options of a slash command
func commandOptions(interaction *discordgo.InteractionCreate) map[string]string {
	options := map[string]string{}
	for _, option := range interaction.ApplicationCommandData().Options {
		if option.Type == discordgo.ApplicationCommandOptionString {
			options[option.Name] = option.StringValue()
		}
	}
	return options
}
