package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	chatsvc "github.com/abhisek/quizwise/internal/chat"
	"github.com/abhisek/quizwise/internal/media"
	"github.com/abhisek/quizwise/internal/router"
	"github.com/abhisek/quizwise/internal/screen"
	"github.com/abhisek/quizwise/internal/shell"
	"github.com/abhisek/quizwise/internal/ui/components"
	"github.com/abhisek/quizwise/internal/ui/layout"
)

const turnTimeout = 3 * time.Minute

type replyMsg struct {
	Message *chatsvc.Message
	Err     error
}

type savedMsg struct {
	Paths []string
	Err   error
}

// ChatScreen is a topic-scoped conversation with the assistant. Without
// a topic it first asks for one.
type ChatScreen struct {
	shell   *shell.Shell
	session *chatsvc.Session

	input        components.TextInput
	includeAudio bool
	saveDir      string

	cancel context.CancelFunc
	notice string
	errMsg string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.BackHandler = (*ChatScreen)(nil)

// New creates a chat screen. An empty topic prompts for one.
func New(sh *shell.Shell, topic string) *ChatScreen {
	c := &ChatScreen{
		shell:        sh,
		includeAudio: true,
		saveDir:      ".",
	}
	c.input = components.NewTextInput("", 500)
	c.start(topic)
	return c
}

// WithSaveDir sets where ctrl+s writes attachments.
func (c *ChatScreen) WithSaveDir(dir string) *ChatScreen {
	c.saveDir = dir
	return c
}

func (c *ChatScreen) start(topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		c.session = nil
		c.input.Model.Placeholder = "What topic shall we talk about?"
		return
	}
	c.session = c.shell.NewChat(topic)
	c.input.Model.Placeholder = "Ask anything about " + topic
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	if c.session == nil {
		return "Chat"
	}
	return "Chat · " + c.session.Topic()
}

// Back discards a reply still in flight and leaves the screen.
func (c *ChatScreen) Back() tea.Cmd {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return func() tea.Msg { return router.PopScreenMsg{} }
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.session == nil {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start chat"},
			{Key: "Esc", Description: "Back"},
		}
	}
	audio := "Audio on"
	if !c.includeAudio {
		audio = "Audio off"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+A", Description: audio},
		{Key: "Ctrl+S", Description: "Save media"},
		{Key: "Ctrl+N", Description: "New topic"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
		if msg.Err != nil {
			if !errors.Is(msg.Err, context.Canceled) {
				c.errMsg = "The assistant could not answer: " + msg.Err.Error()
			}
			return c, nil
		}
		c.errMsg = ""
		return c, nil

	case savedMsg:
		switch {
		case msg.Err != nil:
			c.notice = "Could not save: " + msg.Err.Error()
		case len(msg.Paths) == 0:
			c.notice = "Nothing to save yet."
		default:
			c.notice = "Saved " + strings.Join(msg.Paths, ", ")
		}
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			return c, c.submit()
		case "ctrl+a":
			c.includeAudio = !c.includeAudio
			return c, nil
		case "ctrl+s":
			return c, c.save()
		case "ctrl+n":
			if c.cancel != nil {
				c.cancel()
				c.cancel = nil
			}
			c.start("")
			c.notice = ""
			c.errMsg = ""
			c.input.Reset()
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) submit() tea.Cmd {
	text := c.input.Value()
	if text == "" {
		return nil
	}
	if c.session == nil {
		c.start(text)
		c.input.Reset()
		return nil
	}
	if c.session.Busy() {
		c.input.SetError("Please wait for the current reply.")
		return nil
	}

	c.input.Reset()
	c.notice = ""
	c.errMsg = ""

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	c.cancel = cancel
	sess, audio := c.session, c.includeAudio

	// Send appends the user message before calling the model, so the
	// transcript shows it while the reply is pending.
	return func() tea.Msg {
		m, err := sess.Send(ctx, text, audio)
		return replyMsg{Message: m, Err: err}
	}
}

// save writes the attachments of the latest assistant message that has
// any.
func (c *ChatScreen) save() tea.Cmd {
	if c.session == nil {
		return nil
	}
	msgs := c.session.Messages()
	dir := c.saveDir
	return func() tea.Msg {
		for i := len(msgs) - 1; i >= 0; i-- {
			m := msgs[i]
			if m.Role != chatsvc.RoleAssistant || (m.Audio == "" && m.Image == "") {
				continue
			}
			var paths []string
			base := "quizwise-" + m.ID[:min(8, len(m.ID))]
			for _, uri := range []string{m.Audio, m.Image} {
				if uri == "" {
					continue
				}
				p, err := media.SaveDataURI(dir, base, uri)
				if err != nil {
					return savedMsg{Err: err}
				}
				paths = append(paths, p)
			}
			return savedMsg{Paths: paths}
		}
		return savedMsg{}
	}
}

func attachmentSummary(m chatsvc.Message) string {
	var parts []string
	if m.Image != "" {
		parts = append(parts, "[image attached]")
	}
	if m.Audio != "" {
		parts = append(parts, "[audio attached · ctrl+s to save]")
	}
	return strings.Join(parts, " ")
}

func roleLabel(r chatsvc.Role) string {
	if r == chatsvc.RoleUser {
		return "You"
	}
	return "Tutor"
}

func formatTime(t time.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Local().Hour(), t.Local().Minute())
}
