package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/aldric/opsdeck/internal/api"
	"github.com/aldric/opsdeck/internal/command"
	"github.com/aldric/opsdeck/internal/recent"
)

type recorderSpy struct {
	items []recent.Item
	fail  bool
}

func (r *recorderSpy) Record(ctx context.Context, it recent.Item) error {
	if r.fail {
		return errors.New("disk full")
	}
	r.items = append(r.items, it)
	return nil
}

func navEntry() command.Entry {
	return command.Entry{ID: "nav:jobs", Label: "Jobs", Category: command.CategoryNavigation, Target: "/jobs"}
}

func deployEntry() command.Entry {
	return command.Entry{
		ID:       "deploy:billing",
		Label:    "Deploy billing",
		Category: command.CategoryDeploy,
		Execution: &command.Execution{
			Kind:        command.KindDeploy,
			ServiceName: "billing",
			Script:      api.Script{Name: "deploy"},
		},
	}
}

func scriptEntry(inputs ...api.ScriptInput) command.Entry {
	return command.Entry{
		ID:       "script:billing:reindex",
		Label:    "Reindex invoices",
		Category: command.CategoryRunScript,
		Execution: &command.Execution{
			Kind:        command.KindRunScript,
			ServiceName: "billing",
			Script:      api.Script{Name: "reindex", Inputs: inputs},
		},
	}
}

func objectScriptEntry() command.Entry {
	return command.Entry{
		ID:       "script:object:7:restart",
		Label:    "Restart",
		Category: command.CategoryRunScript,
		Execution: &command.Execution{
			Kind:      command.KindRunScript,
			ObjectID:  7,
			HasObject: true,
			Script:    api.Script{Name: "restart"},
		},
	}
}

func textInput(name string, required bool) api.ScriptInput {
	return api.ScriptInput{Name: name, Type: api.InputText, Required: required}
}

func TestTriggerNavigationResolvesImmediately(t *testing.T) {
	rec := &recorderSpy{}
	c := NewController(rec)
	eff := c.Trigger(context.Background(), navEntry())

	if eff.Kind != EffectNavigate || eff.Path != "/jobs" {
		t.Fatalf("effect=%+v, want navigate /jobs", eff)
	}
	if c.Phase() != PhaseIdle {
		t.Fatalf("phase=%q, navigation must not hold a session", c.Phase())
	}
	if len(rec.items) != 1 || rec.items[0].ID != "nav:jobs" {
		t.Fatalf("recorded=%+v, want one visit", rec.items)
	}
}

func TestTriggerRecencyEntryKeepsOriginalIdentity(t *testing.T) {
	rec := &recorderSpy{}
	c := NewController(rec)
	e := navEntry()
	e.ID = "recent:nav:jobs"
	e.Category = command.CategoryRecent

	c.Trigger(context.Background(), e)
	if len(rec.items) != 1 || rec.items[0].ID != "nav:jobs" {
		t.Fatalf("recorded id=%q, want stripped original identity", rec.items[0].ID)
	}
}

func TestTriggerRecorderFailureDoesNotBlockNavigation(t *testing.T) {
	c := NewController(&recorderSpy{fail: true})
	eff := c.Trigger(context.Background(), navEntry())
	if eff.Kind != EffectNavigate {
		t.Fatalf("effect=%+v, want navigation despite recording failure", eff)
	}
}

func TestTriggerExecutionIsNeverRecorded(t *testing.T) {
	rec := &recorderSpy{}
	c := NewController(rec)
	c.Trigger(context.Background(), deployEntry())
	c.Cancel()
	c.Trigger(context.Background(), scriptEntry())
	if len(rec.items) != 0 {
		t.Fatalf("recorded=%+v, executions must not enter the recency log", rec.items)
	}
}

func TestTriggerMalformedEntryRefused(t *testing.T) {
	c := NewController(&recorderSpy{})
	eff := c.Trigger(context.Background(), command.Entry{ID: "bad"})
	if !eff.IsError {
		t.Fatal("malformed entry must produce an error notice")
	}
	if c.Phase() != PhaseIdle {
		t.Fatal("malformed entry must not create a session")
	}
}

// Deploy must pass through previewing and an explicit confirm; there is no
// trigger input that reaches submitting directly.
func TestDeployGateRequiresPreviewThenConfirm(t *testing.T) {
	c := NewController(&recorderSpy{})
	eff := c.Trigger(context.Background(), deployEntry())

	if eff.Kind != EffectFetchPreview || eff.ServiceName != "billing" {
		t.Fatalf("effect=%+v, want preview fetch", eff)
	}
	if c.Phase() != PhasePreviewing {
		t.Fatalf("phase=%q, want previewing", c.Phase())
	}

	// Confirm before the preview resolves still submits only via the gate:
	// the controller is in previewing, so this is the legal confirm edge.
	eff = c.HandlePreviewResult(api.DeployPreview{Summary: "2 changes"}, nil)
	if eff.Kind != EffectNone || eff.Notice != "" {
		t.Fatalf("preview arrival effect=%+v, want none", eff)
	}
	if !c.Session().PreviewReady {
		t.Fatal("preview should be marked ready")
	}

	eff = c.Confirm()
	if eff.Kind != EffectInvoke || eff.Request.Script != "deploy" {
		t.Fatalf("confirm effect=%+v, want invoke", eff)
	}
	if c.Phase() != PhaseSubmitting {
		t.Fatalf("phase=%q, want submitting", c.Phase())
	}
	if eff.Request.Inputs == nil {
		t.Fatal("invoke request must carry an inputs object, even empty")
	}
}

func TestConfirmOutsidePreviewingIgnored(t *testing.T) {
	c := NewController(&recorderSpy{})
	if eff := c.Confirm(); eff.Kind != EffectNone {
		t.Fatalf("idle confirm effect=%+v, want none", eff)
	}

	c.Trigger(context.Background(), scriptEntry(textInput("env", true)))
	if c.Phase() != PhaseCollecting {
		t.Fatalf("phase=%q, want collecting", c.Phase())
	}
	if eff := c.Confirm(); eff.Kind != EffectNone {
		t.Fatalf("collecting confirm effect=%+v, want none", eff)
	}
	if c.Phase() != PhaseCollecting {
		t.Fatal("ignored confirm must not change phase")
	}
}

func TestPreviewFetchFailureHardBlocks(t *testing.T) {
	c := NewController(&recorderSpy{})
	c.Trigger(context.Background(), deployEntry())

	eff := c.HandlePreviewResult(api.DeployPreview{}, errors.New("502 bad gateway"))
	if !eff.IsError {
		t.Fatal("preview failure must surface an error notice")
	}
	if c.Phase() != PhaseIdle || c.Session() != nil {
		t.Fatal("preview failure must tear the session down")
	}
	// The gate stays shut: no confirm path remains.
	if eff := c.Confirm(); eff.Kind != EffectNone {
		t.Fatalf("confirm after failed preview=%+v, want none", eff)
	}
}

func TestRunScriptWithoutInputsSubmitsImmediately(t *testing.T) {
	c := NewController(&recorderSpy{})
	eff := c.Trigger(context.Background(), scriptEntry())

	if eff.Kind != EffectInvoke {
		t.Fatalf("effect=%+v, want invoke", eff)
	}
	if c.Phase() != PhaseSubmitting {
		t.Fatalf("phase=%q, want submitting", c.Phase())
	}
	if len(eff.Request.Inputs) != 0 || eff.Request.Inputs == nil {
		t.Fatalf("inputs=%v, want empty non-nil map", eff.Request.Inputs)
	}
}

func TestRunScriptWithInputsCollectsFirst(t *testing.T) {
	c := NewController(&recorderSpy{})
	eff := c.Trigger(context.Background(), scriptEntry(textInput("env", true)))

	if eff.Kind != EffectNone {
		t.Fatalf("effect=%+v, want none until submit", eff)
	}
	if c.Phase() != PhaseCollecting || c.Session().Form == nil {
		t.Fatal("collecting session with form expected")
	}

	// Required field empty: submit fails, session stays collecting.
	eff = c.SubmitForm()
	if !eff.IsError {
		t.Fatal("submit with missing required input must fail")
	}
	if c.Phase() != PhaseCollecting {
		t.Fatalf("phase=%q, failed validation must keep collecting", c.Phase())
	}

	c.Session().Form.Fields[0].Text = "staging"
	eff = c.SubmitForm()
	if eff.Kind != EffectInvoke {
		t.Fatalf("effect=%+v, want invoke", eff)
	}
	if got := eff.Request.Inputs["env"]; got != "staging" {
		t.Fatalf("env=%v, want staging", got)
	}
}

func TestObjectScriptRoutesToObjectEndpoint(t *testing.T) {
	c := NewController(&recorderSpy{})
	eff := c.Trigger(context.Background(), objectScriptEntry())
	if !eff.HasObject || eff.ObjectID != 7 {
		t.Fatalf("effect=%+v, want object routing", eff)
	}
}

// One live session process-wide: a new trigger replaces a preview/collect
// session, and the replacement is a complete teardown, not a merge.
func TestTriggerDuringPreviewingDismissesOldSession(t *testing.T) {
	c := NewController(&recorderSpy{})
	c.Trigger(context.Background(), deployEntry())
	first := c.Session().ID

	eff := c.Trigger(context.Background(), scriptEntry(textInput("env", false)))
	if eff.IsError {
		t.Fatalf("replacement trigger refused: %+v", eff)
	}
	s := c.Session()
	if s.ID == first {
		t.Fatal("new trigger must create a fresh session")
	}
	if s.Phase != PhaseCollecting || s.PreviewReady {
		t.Fatalf("session=%+v, want clean collecting state", s)
	}
}

func TestTriggerDuringSubmittingRefused(t *testing.T) {
	c := NewController(&recorderSpy{})
	c.Trigger(context.Background(), scriptEntry())
	if c.Phase() != PhaseSubmitting {
		t.Fatal("setup: expected submitting")
	}
	inFlight := c.Session().ID

	eff := c.Trigger(context.Background(), deployEntry())
	if !eff.IsError {
		t.Fatal("trigger during submitting must be refused")
	}
	if c.Session().ID != inFlight || c.Phase() != PhaseSubmitting {
		t.Fatal("in-flight session must survive the refused trigger")
	}
}

func TestCancelSemanticsPerPhase(t *testing.T) {
	c := NewController(&recorderSpy{})

	// Idle: no-op.
	if eff := c.Cancel(); eff.Kind != EffectNone || eff.Notice != "" {
		t.Fatalf("idle cancel=%+v, want silent no-op", eff)
	}

	// Previewing: pure teardown.
	c.Trigger(context.Background(), deployEntry())
	c.Cancel()
	if c.Phase() != PhaseIdle {
		t.Fatal("cancel during previewing must tear down")
	}

	// Collecting: pure teardown, values discarded.
	c.Trigger(context.Background(), scriptEntry(textInput("env", false)))
	c.Session().Form.Fields[0].Text = "typed"
	c.Cancel()
	if c.Phase() != PhaseIdle {
		t.Fatal("cancel during collecting must tear down")
	}

	// Submitting: the call is committed; cancel only informs.
	c.Trigger(context.Background(), scriptEntry())
	eff := c.Cancel()
	if eff.Notice == "" || eff.IsError {
		t.Fatalf("submitting cancel=%+v, want informational notice", eff)
	}
	if c.Phase() != PhaseSubmitting {
		t.Fatal("cancel must not abandon an in-flight submission")
	}
}

func TestInvokeResultRouting(t *testing.T) {
	c := NewController(&recorderSpy{})

	// Async: job id routes to the job view.
	c.Trigger(context.Background(), scriptEntry())
	eff := c.HandleInvokeResult(api.InvokeResult{JobID: "j-42"}, nil)
	if eff.Kind != EffectNavigate || eff.Path != "/jobs/j-42" {
		t.Fatalf("effect=%+v, want navigate to job", eff)
	}
	if c.Phase() != PhaseIdle {
		t.Fatal("session must be destroyed after result")
	}

	// Sync: empty result reports completion.
	c.Trigger(context.Background(), scriptEntry())
	eff = c.HandleInvokeResult(api.InvokeResult{}, nil)
	if eff.Kind != EffectNone || eff.Notice == "" || eff.IsError {
		t.Fatalf("effect=%+v, want completion notice", eff)
	}

	// Failure: error notice, session destroyed, no retained inputs.
	c.Trigger(context.Background(), scriptEntry())
	eff = c.HandleInvokeResult(api.InvokeResult{}, errors.New("timeout"))
	if !eff.IsError {
		t.Fatalf("effect=%+v, want error", eff)
	}
	if c.Session() != nil {
		t.Fatal("failed invoke must not retain the session")
	}
}

func TestStaleResultsIgnored(t *testing.T) {
	c := NewController(&recorderSpy{})

	// A preview result with no live session.
	if eff := c.HandlePreviewResult(api.DeployPreview{}, nil); eff.Kind != EffectNone {
		t.Fatalf("stale preview effect=%+v, want none", eff)
	}

	// A preview result landing after its session was replaced.
	c.Trigger(context.Background(), deployEntry())
	c.Trigger(context.Background(), scriptEntry(textInput("env", false)))
	if eff := c.HandlePreviewResult(api.DeployPreview{Summary: "old"}, nil); eff.Kind != EffectNone {
		t.Fatalf("replaced-session preview effect=%+v, want none", eff)
	}
	if c.Session().PreviewReady {
		t.Fatal("stale preview must not leak into the new session")
	}

	// An invoke result with no submitting session.
	c.Cancel()
	if eff := c.HandleInvokeResult(api.InvokeResult{JobID: "j-9"}, nil); eff.Kind != EffectNone {
		t.Fatalf("stale invoke effect=%+v, want none", eff)
	}
}
