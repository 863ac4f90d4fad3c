// Package tasklist is the controller behind every task view: it issues
// the list/create/delete requests and decides, per error channel, what
// the view should do next.
//
// Application errors on load are logged; on add and remove they become an
// alert. Transport failures are always logged and never shown. Nothing is
// retried, and nothing guards against overlapping calls.
package tasklist

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tasks/internal/api"
	"github.com/idilsaglam/tasks/internal/model"
)

// Service is the subset of the API client the controller needs.
type Service interface {
	List(ctx context.Context) (model.TaskCollection, error)
	Create(ctx context.Context, text string) (api.Receipt, error)
	Delete(ctx context.Context, id int64) (api.Receipt, error)
}

// Outcome tells the host view what to do after an operation. The zero
// value means "leave everything as it is".
type Outcome struct {
	// Render: replace the displayed list with Tasks.
	Render bool
	Tasks  model.TaskCollection

	// Alert is a blocking, user-facing message.
	Alert string

	ClearInput bool
	Reload     bool

	// Err is the failure behind the outcome, if any, already logged.
	Err error
}

// Controller is safe to call from several goroutines at once; it holds
// no mutable state of its own.
type Controller struct {
	svc    Service
	logger *log.Logger
}

func New(svc Service, logger *log.Logger) *Controller {
	return &Controller{svc: svc, logger: logger}
}

// Load fetches the collection. Only a successful fetch renders.
func (c *Controller) Load(ctx context.Context) Outcome {
	tasks, err := c.svc.List(ctx)
	if err != nil {
		if msg, ok := api.IsApp(err); ok {
			c.logger.Error(msg, "op", "load")
		} else {
			c.logger.Error("Load tasks error", "err", err)
		}
		return Outcome{Err: err}
	}
	if tasks == nil {
		tasks = model.TaskCollection{}
	}
	return Outcome{Render: true, Tasks: tasks}
}

// Add creates a task from user input. Whitespace-only input sends nothing.
func (c *Controller) Add(ctx context.Context, text string) Outcome {
	text = TrimInput(text)
	if text == "" {
		return Outcome{}
	}
	if _, err := c.svc.Create(ctx, text); err != nil {
		return c.mutationFailed("Add task error", err)
	}
	c.logger.Debug("task added", "task", text)
	return Outcome{ClearInput: true, Reload: true}
}

// TrimInput strips what a browser's String.prototype.trim strips:
// Unicode white space plus the byte order mark.
func TrimInput(text string) string {
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}

// Blank reports whether Add would send nothing for text.
func Blank(text string) bool { return TrimInput(text) == "" }

// Remove deletes the task with the given id.
func (c *Controller) Remove(ctx context.Context, id int64) Outcome {
	if _, err := c.svc.Delete(ctx, id); err != nil {
		return c.mutationFailed("Delete task error", err)
	}
	c.logger.Debug("task removed", "id", id)
	return Outcome{Reload: true}
}

func (c *Controller) mutationFailed(label string, err error) Outcome {
	if msg, ok := api.IsApp(err); ok {
		c.logger.Warn(label, "err", msg)
		return Outcome{Alert: msg, Err: err}
	}
	c.logger.Error(label, "err", err)
	return Outcome{Err: err}
}

// IsTransport reports whether an outcome failed below the application
// layer (network, unreadable body).
func (o Outcome) IsTransport() bool {
	var te *api.TransportError
	return errors.As(o.Err, &te)
}
