package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"chat-client/domain"
	errs "chat-client/errors"
	"chat-client/restapi"
	"chat-client/runtime"
)

// terminal renders the subsystem's state and translates line commands into
// transitions. All of its mutable fields are touched on the event loop only:
// commands are posted, and render runs after transitions.
type terminal struct {
	client *runtime.Client
	api    *restapi.Client
	out    io.Writer
	quit   func()

	lastThread  domain.ActiveContext
	printedMsgs int
	lastConnErr error
	lastDirErr  error
	findPending bool
}

func newTerminal(client *runtime.Client, api *restapi.Client, quit func()) *terminal {
	return &terminal{client: client, api: api, out: os.Stdout, quit: quit}
}

// ReadLoop consumes stdin line by line. Plain text is a message submission;
// lines starting with "/" are commands. Every action is posted to the event
// loop so it interleaves with channel events instead of racing them.
func (t *terminal) ReadLoop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit":
			t.quit()
			return nil
		case line == "/list":
			t.client.Post(t.renderDirectory)
		case line == "/retry":
			t.client.Post(func() { t.retry(ctx) })
		case strings.HasPrefix(line, "/open "):
			t.postOpen(ctx, strings.TrimPrefix(line, "/open "))
		case strings.HasPrefix(line, "/find "):
			query := strings.TrimPrefix(line, "/find ")
			t.client.Post(func() {
				t.findPending = true
				t.client.Search().Query(ctx, query)
			})
		case strings.HasPrefix(line, "/pick "):
			t.postPick(ctx, strings.TrimPrefix(line, "/pick "))
		default:
			t.client.Post(func() { t.send(line) })
		}
	}
	return scanner.Err()
}

func (t *terminal) postOpen(ctx context.Context, arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintln(t.out, "usage: /open <row number from /list>")
		return
	}
	t.client.Post(func() {
		conversations := t.client.Directory().Conversations()
		if n < 1 || n > len(conversations) {
			fmt.Fprintf(t.out, "no conversation at row %d\n", n)
			return
		}
		t.client.Thread().SelectConversation(ctx, conversations[n-1].ID)
	})
}

func (t *terminal) postPick(ctx context.Context, arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		fmt.Fprintln(t.out, "usage: /pick <row number from /find>")
		return
	}
	t.client.Post(func() {
		results := t.client.Search().Results()
		if n < 1 || n > len(results) {
			fmt.Fprintf(t.out, "no search result at row %d\n", n)
			return
		}
		t.client.PickRecipient(ctx, results[n-1])
	})
}

func (t *terminal) send(text string) {
	t.client.Composer().SetInput(text)
	if err := t.client.Composer().Submit(); err != nil {
		if errors.Is(err, errs.ErrNoTarget) {
			fmt.Fprintln(t.out, color.Yellow.Sprint("Pick a conversation (/open) or a recipient (/find, /pick) first"))
			return
		}
		fmt.Fprintln(t.out, color.Red.Sprintf("Send failed: %v", err))
	}
}

func (t *terminal) retry(ctx context.Context) {
	if !t.client.Connected() {
		t.client.Reconnect(ctx)
		return
	}
	t.client.Directory().Load(ctx)
}

// render runs on the event loop after every transition and prints what
// changed: connection banners, newly arrived messages, search results,
// inline errors.
func (t *terminal) render() {
	t.renderConnBanner()
	t.renderThread()
	t.renderSearch()
	t.renderFailures()
}

func (t *terminal) renderConnBanner() {
	err := t.client.ConnErr()
	if err != nil && (t.lastConnErr == nil || err.Error() != t.lastConnErr.Error()) {
		fmt.Fprintln(t.out, color.Red.Sprintf("! %v (/retry to reconnect)", err))
	}
	if err == nil && t.lastConnErr != nil {
		fmt.Fprintln(t.out, color.Green.Sprint("Connected"))
	}
	t.lastConnErr = err
}

func (t *terminal) renderThread() {
	active := t.client.Thread().Active()
	if active != t.lastThread {
		t.lastThread = active
		t.printedMsgs = 0
		if pending, ok := active.Pending(); ok {
			fmt.Fprintln(t.out, color.Cyan.Sprintf("-- New conversation with %s (first message creates it)", pending.Name))
		}
		if id, ok := active.ViewingID(); ok {
			if conv, found := t.client.Directory().Get(id); found {
				fmt.Fprintln(t.out, color.Cyan.Sprintf("-- %s", conv.DisplayName(t.client.Session().ParticipantID)))
			}
		}
	}

	if err := t.client.Thread().Err(); err != nil && t.printedMsgs == 0 {
		fmt.Fprintln(t.out, color.Red.Sprintf("! %v", err))
		return
	}

	messages := t.client.Thread().Messages()
	for _, msg := range messages[t.printedMsgs:] {
		t.printMessage(msg)
	}
	t.printedMsgs = len(messages)
}

func (t *terminal) printMessage(msg domain.Message) {
	stamp := msg.CreatedAt.Format(time.TimeOnly)
	sender := msg.SenderID
	paint := color.Gray
	if msg.SenderID == t.client.Session().ParticipantID {
		sender = "me"
		paint = color.Green
	}

	body := msg.Content
	if msg.IsAttachment() {
		body = fmt.Sprintf("[%s] %s %s", msg.ContentType, msg.FileName, t.api.FileURL(msg.FileURL))
	}
	fmt.Fprintln(t.out, paint.Sprintf("[%s] %s: %s", stamp, sender, body))
}

func (t *terminal) renderSearch() {
	if !t.findPending {
		return
	}
	if err := t.client.Search().Err(); err != nil {
		t.findPending = false
		fmt.Fprintln(t.out, color.Red.Sprintf("! search failed: %v", err))
		return
	}
	results := t.client.Search().Results()
	if results == nil {
		return // debounce still running
	}
	t.findPending = false
	for i, p := range results {
		fmt.Fprintf(t.out, "%d. %s <%s>\n", i+1, p.Name, p.Email)
	}
	if len(results) == 0 {
		fmt.Fprintln(t.out, "no matches")
	}
}

func (t *terminal) renderFailures() {
	if err := t.client.Composer().Failure(); err != nil {
		fmt.Fprintln(t.out, color.Red.Sprintf("! %v (input kept, send again to retry)", err))
		t.client.Composer().DismissFailure()
	}

	// The directory error is a standing condition; print it once per
	// occurrence, not after every transition.
	err := t.client.Directory().Err()
	if err != nil && (t.lastDirErr == nil || err.Error() != t.lastDirErr.Error()) {
		fmt.Fprintln(t.out, color.Red.Sprintf("! %v (/retry to reload)", err))
	}
	t.lastDirErr = err
}

// renderDirectory prints the conversation table, most recent activity first.
func (t *terminal) renderDirectory() {
	if err := t.client.Directory().Err(); err != nil {
		fmt.Fprintln(t.out, color.Red.Sprintf("! %v (/retry to reload)", err))
		return
	}

	callerID := t.client.Session().ParticipantID
	table := tablewriter.NewWriter(t.out)
	table.SetHeader([]string{"#", "Conversation", "Kind", "Last activity", "Last message"})
	for i, conv := range t.client.Directory().Conversations() {
		last := ""
		when := conv.UpdatedAt
		if conv.LastMessage != nil {
			last = conv.LastMessage.Content
			when = conv.LastMessage.CreatedAt
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			conv.DisplayName(callerID),
			string(conv.Kind),
			when.Format(time.DateTime),
			last,
		})
	}
	table.Render()
}
