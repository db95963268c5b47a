package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MosinFAM/comment-threads/internal/thread"
)

const help = `commands:
  say <text>     post a root comment
  reply <id>     open or close the reply box under comment <id>
  send <text>    post the open reply
  delete <id>    delete your comment
  reload         fetch the comments again
  show           print the thread
  help           this text
  quit           exit
\n inside <text> starts a new line`

type repl struct {
	ctrl *thread.Controller
	out  io.Writer
	// back выставляется навигатором: страница закрыта
	back bool
}

func (r *repl) notify(n thread.Notice) {
	prefix := n.Level.String()
	if n.Blocking {
		prefix = strings.ToUpper(prefix)
	}
	fmt.Fprintf(r.out, "[%s] %s\n", prefix, n.Message)
}

func (r *repl) Back() {
	r.back = true
}

func (r *repl) SignIn() {
	fmt.Fprintln(r.out, "sign in: set API_TOKEN (POST /api/v1/session on a dev server issues one)")
}

func (r *repl) prompt() {
	fmt.Fprint(r.out, "> ")
}

func (r *repl) show() {
	s := r.ctrl.State()
	if s.Post != nil {
		fmt.Fprintf(r.out, "== %s (%d views)\n", s.Post.Title, s.Post.ViewCount)
	}
	if s.Identity != nil {
		fmt.Fprintf(r.out, "signed in as %s\n", s.Identity.Nickname)
	} else {
		fmt.Fprintln(r.out, "read-only: not signed in")
	}
	if err := r.ctrl.Render(r.out); err != nil {
		fmt.Fprintln(r.out, "render:", err)
	}
}

// unescape превращает \n в перевод строки
func unescape(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}

// exec выполняет одну команду; true - выйти
func (r *repl) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(r.out, help)
		return false
	case "show":
		r.show()
		return false
	case "reload":
		_ = r.ctrl.Refresh(ctx)
	case "say":
		r.ctrl.SetRootDraft(unescape(arg))
		if r.ctrl.SubmitRoot(ctx) != nil {
			return r.back
		}
	case "reply":
		id, ok := r.id(arg)
		if !ok {
			return false
		}
		prev := r.ctrl.State().ReplyTarget
		if !r.ctrl.ToggleReply(id) {
			if prev != nil && *prev == id {
				fmt.Fprintln(r.out, "reply box closed")
			} else {
				fmt.Fprintf(r.out, "cannot reply to #%d\n", id)
				return false
			}
		}
	case "send":
		r.ctrl.SetReplyDraft(unescape(arg))
		if r.ctrl.SubmitReply(ctx) != nil {
			return r.back
		}
	case "delete":
		id, ok := r.id(arg)
		if !ok {
			return false
		}
		if r.ctrl.Delete(ctx, id) != nil {
			return r.back
		}
	default:
		fmt.Fprintf(r.out, "unknown command %q, try help\n", cmd)
		return false
	}

	r.show()
	return r.back
}

func (r *repl) id(arg string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(r.out, "expected a comment id, got %q\n", arg)
		return 0, false
	}
	return id, true
}
