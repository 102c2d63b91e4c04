// Package dispatch owns the single action-orchestration session. Every
// trigger surface (palette, list views) funnels selected entries through one
// Controller, which is the only place the deploy preview gate and the
// one-live-session rule are enforced.
//
// The controller is a synchronous state machine: it never performs remote
// calls itself. Transitions return an Effect describing the call or
// navigation the UI must perform; the UI feeds call results back through
// HandlePreviewResult / HandleInvokeResult. That keeps every transition
// testable without a network and keeps all mutation on the event loop.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/command"
	"github.com/aldric/opsdeck/internal/logging"
	"github.com/aldric/opsdeck/internal/recent"
	"github.com/aldric/opsdeck/internal/scriptform"
)

// Phase is the session's position in the orchestration flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhasePreviewing Phase = "previewing"
	PhaseCollecting Phase = "collecting-inputs"
	PhaseSubmitting Phase = "submitting"
)

// Session is the one live orchestration flow. Created on trigger, destroyed on
// completion, cancellation, or error; no other component mutates it.
type Session struct {
	ID           string
	Phase        Phase
	ServiceName  string
	ObjectID     int64
	HasObject    bool
	Script       api.Script
	Form         *scriptform.Form
	Preview      api.DeployPreview
	PreviewReady bool
}

// EffectKind tells the UI what to do after a transition.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectNavigate
	EffectFetchPreview
	EffectInvoke
)

// Effect is the controller's instruction to its caller. Notice, when set, is
// user-facing status text; IsError marks it as a failure notice.
type Effect struct {
	Kind        EffectKind
	Path        string
	ServiceName string
	ObjectID    int64
	HasObject   bool
	Request     api.InvokeRequest
	Notice      string
	IsError     bool
}

func notice(text string) Effect  { return Effect{Notice: text} }
func failure(text string) Effect { return Effect{Notice: text, IsError: true} }

// Recorder appends navigation choices to the recency log.
type Recorder interface {
	Record(ctx context.Context, it recent.Item) error
}

// Controller drives dispatch sessions. Not safe for concurrent use; it lives
// on the UI event loop.
type Controller struct {
	recents Recorder
	session *Session
}

func NewController(recents Recorder) *Controller {
	return &Controller{recents: recents}
}

// Session returns the live session, or nil when idle.
func (c *Controller) Session() *Session { return c.session }

// Phase returns the live session's phase, PhaseIdle when none.
func (c *Controller) Phase() Phase {
	if c.session == nil {
		return PhaseIdle
	}
	return c.session.Phase
}

// Trigger resolves a selected entry into its execution path. Navigation
// resolves immediately; deploy opens the preview gate; run-script either goes
// straight to submission (no declared inputs) or opens input collection.
//
// At most one session is live process-wide: a trigger during previewing or
// collecting dismisses the old session first, and a trigger during submitting
// is refused because that call is already committed.
func (c *Controller) Trigger(ctx context.Context, e command.Entry) Effect {
	if err := e.Validate(); err != nil {
		logging.Errorf("dispatch: refusing malformed entry: %v", err)
		return failure("Selected entry is malformed.")
	}
	if c.session != nil {
		if c.session.Phase == PhaseSubmitting {
			return failure("An action is already submitting; wait for it to finish.")
		}
		logging.Debugf("dispatch: dismissing session %s (%s) for new trigger %q",
			c.session.ID, c.session.Phase, e.ID)
		c.teardown()
	}

	if e.Target != "" {
		c.recordVisit(ctx, e)
		return Effect{Kind: EffectNavigate, Path: e.Target}
	}

	exec := e.Execution
	s := &Session{
		ID:          uuid.NewString(),
		ServiceName: exec.ServiceName,
		ObjectID:    exec.ObjectID,
		HasObject:   exec.HasObject,
		Script:      exec.Script,
	}

	switch exec.Kind {
	case command.KindDeploy:
		// Deploy is always gated by preview/confirm, regardless of caller.
		s.Phase = PhasePreviewing
		c.session = s
		return Effect{Kind: EffectFetchPreview, ServiceName: exec.ServiceName}
	case command.KindRunScript:
		if len(exec.Script.Inputs) == 0 {
			s.Phase = PhaseSubmitting
			c.session = s
			return c.invokeEffect(map[string]any{})
		}
		s.Phase = PhaseCollecting
		s.Form = scriptform.New(exec.ServiceName, exec.Script.Name, exec.Script.Inputs)
		c.session = s
		return Effect{}
	}
	// Unreachable after Validate; kept defensive.
	logging.Errorf("dispatch: entry %q has unknown execution kind %q", e.ID, exec.Kind)
	return failure("Selected entry is malformed.")
}

// HandlePreviewResult receives the deploy preview fetch outcome. A failed
// fetch hard-blocks: the session tears down rather than falling through to an
// unconfirmed deploy.
func (c *Controller) HandlePreviewResult(p api.DeployPreview, err error) Effect {
	if c.Phase() != PhasePreviewing {
		logging.Errorf("dispatch: preview result in phase %q ignored", c.Phase())
		return Effect{}
	}
	if err != nil {
		logging.Errorf("dispatch: preview fetch failed: %v", err)
		c.teardown()
		return failure(fmt.Sprintf("Preview failed: %v", err))
	}
	c.session.Preview = p
	c.session.PreviewReady = true
	return Effect{}
}

// Confirm passes the preview gate. Legal only while previewing; anything else
// is a programmer error and is ignored.
func (c *Controller) Confirm() Effect {
	if c.Phase() != PhasePreviewing {
		logging.Errorf("dispatch: confirm in phase %q ignored", c.Phase())
		return Effect{}
	}
	c.session.Phase = PhaseSubmitting
	return c.invokeEffect(map[string]any{})
}

// SubmitForm normalizes and validates the collected inputs. Validation
// failure keeps the session collecting with fields flagged; success moves to
// submitting.
func (c *Controller) SubmitForm() Effect {
	if c.Phase() != PhaseCollecting {
		logging.Errorf("dispatch: submit in phase %q ignored", c.Phase())
		return Effect{}
	}
	values, ok := c.session.Form.Submit()
	if !ok {
		return failure(fmt.Sprintf("Required input %q is missing.", c.session.Form.FirstError()))
	}
	c.session.Phase = PhaseSubmitting
	return c.invokeEffect(values)
}

// Cancel dismisses the live session: pure state teardown, no remote call has
// been made from previewing or collecting. Once submitting, the in-flight
// call is committed and cannot be cancelled.
func (c *Controller) Cancel() Effect {
	switch c.Phase() {
	case PhaseIdle:
		return Effect{}
	case PhaseSubmitting:
		return notice("Submission already in flight.")
	}
	c.teardown()
	return Effect{}
}

// HandleInvokeResult receives the run outcome. The session is destroyed
// either way: a returned job id routes to its detail view, an empty result
// reports synchronous completion, and an error reports failure without
// retaining inputs (a silent retry risks duplicate invocation).
func (c *Controller) HandleInvokeResult(res api.InvokeResult, err error) Effect {
	if c.Phase() != PhaseSubmitting {
		logging.Errorf("dispatch: invoke result in phase %q ignored", c.Phase())
		return Effect{}
	}
	script := c.session.Script
	c.teardown()
	if err != nil {
		logging.Errorf("dispatch: invoke %q failed: %v", script.Name, err)
		return failure(fmt.Sprintf("Action failed: %v", err))
	}
	if res.JobID != "" {
		eff := Effect{Kind: EffectNavigate, Path: "/jobs/" + res.JobID}
		eff.Notice = fmt.Sprintf("Started job %s.", res.JobID)
		return eff
	}
	return notice(fmt.Sprintf("%s completed.", script.DisplayLabel()))
}

func (c *Controller) invokeEffect(inputs map[string]any) Effect {
	s := c.session
	return Effect{
		Kind:        EffectInvoke,
		ServiceName: s.ServiceName,
		ObjectID:    s.ObjectID,
		HasObject:   s.HasObject,
		Request:     api.InvokeRequest{Script: s.Script.Name, Inputs: inputs},
	}
}

func (c *Controller) teardown() {
	c.session = nil
}

// recordVisit appends a navigational choice to the recency log. Recording is
// best-effort; a storage error must not block navigation.
func (c *Controller) recordVisit(ctx context.Context, e command.Entry) {
	if c.recents == nil {
		return
	}
	// A re-chosen recency entry keeps its original identity so it moves to
	// the front instead of duplicating.
	id := strings.TrimPrefix(e.ID, "recent:")
	err := c.recents.Record(ctx, recent.Item{
		ID:    id,
		Label: e.Label,
		Icon:  e.Icon,
		Href:  e.Target,
	})
	if err != nil {
		logging.Errorf("dispatch: record recent %q: %v", id, err)
	}
}
