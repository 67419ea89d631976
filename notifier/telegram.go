package notifier

import (
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/jochie/teletekst/db"
	"github.com/jochie/teletekst/matcher"
	"github.com/jochie/teletekst/models"
)

// Telegram limits message text to 4096 characters
const maxMessageLen = 4096

// Notifier posts page changes to a Telegram chat. It keeps track of the
// message posted for each page (via the post_state table) so that a later
// change to the same page updates or replies to the original message instead
// of starting a fresh thread.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	db     *db.DB
	dryRun bool
}

// NewNotifier creates a new Notifier. The bot may be nil in dry-run mode.
func NewNotifier(bot *tgbotapi.BotAPI, chatID int64, database *db.DB, dryRun bool) *Notifier {
	return &Notifier{
		bot:    bot,
		chatID: chatID,
		db:     database,
		dryRun: dryRun,
	}
}

// NotifyNew announces a page that has no counterpart in the previous
// snapshot
func (n *Notifier) NotifyNew(page models.Page) error {
	text := statusLine(page.Number, page.Title)

	if n.dryRun {
		log.Printf("[dryrun] would post: %s\n", firstLine(text))
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	sent, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("failed to post new page %d: %w", page.Number, err)
	}
	return n.db.SetPostState(page.Title, page.Number, sent.MessageID)
}

// NotifyChanged announces a matched page that differs from its previous
// version. When only the number or title changed, the original message is
// edited in place; when the content changed, a reply carrying the unified
// diff is posted under the original message.
func (n *Notifier) NotifyChanged(prev, next models.Page, result matcher.MatchResult, udiff string) error {
	messageID, err := n.db.GetPostState(prev.Title, prev.Number)
	if err != nil {
		return err
	}

	if messageID == 0 {
		// Never posted about this page before (e.g. state predates the bot)
		log.Printf("No earlier post for page %d %q, posting fresh\n", prev.Number, prev.Title)
		return n.NotifyNew(next)
	}

	if n.dryRun {
		log.Printf("[dryrun] would update post %d for page %d -> %d\n", messageID, prev.Number, next.Number)
		return nil
	}

	if !result.HasField(matcher.FieldContent) {
		// Same text under a new number or title: fix up the original message
		edit := tgbotapi.NewEditMessageText(n.chatID, messageID, statusLine(next.Number, next.Title))
		if _, err := n.bot.Send(edit); err != nil {
			return fmt.Errorf("failed to edit post for page %d: %w", next.Number, err)
		}
		return n.movePostState(prev, next, messageID)
	}

	text := statusLine(next.Number, next.Title)
	if udiff != "" {
		text = truncate(fmt.Sprintf("%s\n\n%s", text, udiff), maxMessageLen)
	}
	reply := tgbotapi.NewMessage(n.chatID, text)
	reply.ReplyToMessageID = messageID
	sent, err := n.bot.Send(reply)
	if err != nil {
		return fmt.Errorf("failed to post update for page %d: %w", next.Number, err)
	}
	return n.movePostState(prev, next, sent.MessageID)
}

// NotifyRemoved marks the message of a page that disappeared
func (n *Notifier) NotifyRemoved(page models.Page) error {
	messageID, err := n.db.GetPostState(page.Title, page.Number)
	if err != nil {
		return err
	}
	if messageID == 0 {
		log.Printf("No earlier post for removed page %d %q\n", page.Number, page.Title)
		return nil
	}

	if n.dryRun {
		log.Printf("[dryrun] would mark post %d deleted for page %d\n", messageID, page.Number)
		return nil
	}

	edit := tgbotapi.NewEditMessageText(n.chatID, messageID,
		fmt.Sprintf("[Verwijderd] %s\n#teletekst", page.Title))
	if _, err := n.bot.Send(edit); err != nil {
		return fmt.Errorf("failed to mark page %d deleted: %w", page.Number, err)
	}
	return n.db.ClearPostState(page.Title, page.Number)
}

// movePostState re-keys the stored message ID from the old page identity to
// the new one
func (n *Notifier) movePostState(prev, next models.Page, messageID int) error {
	if err := n.db.ClearPostState(prev.Title, prev.Number); err != nil {
		return err
	}
	return n.db.SetPostState(next.Title, next.Number, messageID)
}

// statusLine formats the standard first line of a page notification
func statusLine(number int, title string) string {
	return fmt.Sprintf("[%d] %s\nhttps://nos.nl/teletekst/%d #teletekst", number, title, number)
}

func firstLine(text string) string {
	for i, r := range text {
		if r == '\n' {
			return text[:i]
		}
	}
	return text
}

func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxLen-1 {
		return text
	}
	return string(runes[:maxLen-1]) + "…"
}
