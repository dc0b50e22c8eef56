package notify

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Vodeneev/leonspider/internal/parser/harvest"
)

// sender is the part of *tgbotapi.BotAPI the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends a summary of every finished run to one chat.
// Messages are queued and sent from a background goroutine so the pipeline
// never waits on Telegram.
type TelegramNotifier struct {
	harvest.NopObserver

	bot    sender
	chatID int64

	mu     sync.Mutex
	closed bool
	queue  chan string
	wg     sync.WaitGroup
}

// NewTelegramNotifier connects to the Bot API and checks the token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	bot.Debug = false

	slog.Info("Telegram notifier initialized", "bot", bot.Self.UserName, "chat_id", chatID)
	return newNotifier(bot, chatID), nil
}

func newNotifier(bot sender, chatID int64) *TelegramNotifier {
	n := &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		queue:  make(chan string, 16),
	}
	n.wg.Add(1)
	go n.sendLoop()
	return n
}

func (n *TelegramNotifier) RunFinished(res *harvest.RunResult, err error) {
	text := FormatSummary(res, err)

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		slog.Warn("Telegram notifier closed, dropping run summary")
		return
	}
	select {
	case n.queue <- text:
	default:
		slog.Warn("Telegram queue full, dropping run summary")
	}
}

// Close flushes queued messages and stops the sender. Summaries of runs
// finishing after Close are dropped. Safe to call twice.
func (n *TelegramNotifier) Close() error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	n.wg.Wait()
	return nil
}

func (n *TelegramNotifier) sendLoop() {
	defer n.wg.Done()
	for text := range n.queue {
		msg := tgbotapi.NewMessage(n.chatID, text)
		msg.DisableWebPagePreview = true
		if _, err := n.bot.Send(msg); err != nil {
			slog.Error("Failed to send telegram message", "chat_id", n.chatID, "error", err)
		}
	}
}

// FormatSummary renders a run as a short plain-text message.
func FormatSummary(res *harvest.RunResult, err error) string {
	var b strings.Builder
	if err != nil {
		b.WriteString("❌ Leon harvest failed\n")
	} else {
		b.WriteString("✅ Leon harvest finished\n")
	}
	if res != nil {
		fmt.Fprintf(&b, "Matches: %d\n", res.Matches)
		for _, p := range res.Pages {
			if p.Error != "" {
				fmt.Fprintf(&b, "• %s: error: %s\n", p.Name, p.Error)
				continue
			}
			fmt.Fprintf(&b, "• %s: %d\n", p.Name, p.Matches)
		}
		if res.ReportPath != "" {
			fmt.Fprintf(&b, "Report: %s\n", res.ReportPath)
		}
		fmt.Fprintf(&b, "Duration: %s\n", res.Duration.Round(time.Millisecond))
	}
	if err != nil {
		fmt.Fprintf(&b, "Error: %v\n", err)
	}
	return strings.TrimRight(b.String(), "\n")
}
