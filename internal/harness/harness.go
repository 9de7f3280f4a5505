package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/visage/internal/config"
	"github.com/roach88/visage/internal/curves"
	"github.com/roach88/visage/internal/frame"
	"github.com/roach88/visage/internal/retarget"
	"github.com/roach88/visage/internal/session"
	"github.com/roach88/visage/internal/store"
)

// takeID is the fixed ID of the scenario's take.
const takeID = "scenario-take"

// Harness executes one scenario against a session and a take store.
type Harness struct {
	store   *store.Store
	session *session.Session
	cfg     *config.Config
	take    store.Take
	result  *Result
}

// Run executes a scenario and returns the result.
//
// Each run opens a fresh in-memory database and a session that never
// starts its receiver: frames are written straight into the live buffer.
// Step errors abort the run; assertion failures are reported in Result.
func Run(scenario *Scenario) (*Result, error) {
	cfg := config.Default()
	if scenario.Config != "" {
		loaded, err := config.Load(scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(store.NewFixedGenerator(takeID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st, cfg: cfg, result: NewResult()}
	h.session, err = session.New(cfg, session.PoseTargetFunc(h.capturePose))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	defer h.session.Close()

	ctx := context.Background()
	name := scenario.Take
	if name == "" {
		name = scenario.Name
	}
	if h.take, err = st.CreateTake(ctx, name, cfg.FrameLatency); err != nil {
		return nil, err
	}

	for i, step := range scenario.Steps {
		if err := h.execute(ctx, step); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	if h.result.Curves, err = st.LoadCurves(ctx, h.take.ID); err != nil {
		return nil, fmt.Errorf("failed to load curves: %w", err)
	}

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func (h *Harness) capturePose(p retarget.PoseParameters) error {
	h.result.Pose = &p
	return nil
}

func (h *Harness) execute(ctx context.Context, step Step) error {
	event := TraceEvent{Op: step.Op}

	switch step.Op {
	case OpFrame:
		f, err := buildFrame(step)
		if err != nil {
			return err
		}
		h.session.Buffer().Store(f)

	case OpApply:
		if err := h.session.SampleAndApply(); err != nil {
			return err
		}
		event.Weights = nonZero(h.result.Pose)

	case OpKey:
		h.session.RecordKey(step.Pos)
		pos := step.Pos
		event.Pos = &pos

	case OpNeutral:
		h.session.SetNeutral()

	case OpResetNeutral:
		h.session.ResetNeutral()

	case OpMirror:
		mode, err := retarget.ParseMirror(step.Mirror)
		if err != nil {
			return err
		}
		settings := h.session.Settings()
		settings.Mirror = mode
		if err := h.session.UpdateSettings(settings); err != nil {
			return err
		}
		event.Mirror = mode.String()

	case OpSave:
		n, err := h.session.Save(ctx, h.store.TakeWriter(h.take, h.cfg.Target))
		if err != nil {
			return err
		}
		event.Count = &n

	case OpClear:
		h.session.ClearRecording()

	case OpDestutter:
		n, err := curves.DestutterSink(ctx, h.store.CurveSet(h.take))
		if err != nil {
			return err
		}
		event.Count = &n

	case OpSmooth:
		opts, err := h.cfg.SmoothOptions()
		if err != nil {
			return err
		}
		if err := curves.SmoothSink(ctx, h.store.CurveSet(h.take), opts); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}

	slog.Debug("scenario step", "op", step.Op, "seq", len(h.result.Trace)+1)
	h.result.addEvent(event)
	return nil
}

// buildFrame assembles a frame from a step's named weights and angles.
func buildFrame(step Step) (frame.Frame, error) {
	var f frame.Frame
	for name, v := range step.Weights {
		i, ok := frame.Index(name)
		if !ok {
			return f, fmt.Errorf("unknown channel %q", name)
		}
		f[i] = v
	}
	copy(f[frame.HeadRotation:frame.HeadRotation+3], step.Head)
	copy(f[frame.EyeLeftRotation:frame.EyeLeftRotation+2], step.EyeLeft)
	copy(f[frame.EyeRightRotation:frame.EyeRightRotation+2], step.EyeRight)
	return f, nil
}

func nonZero(p *retarget.PoseParameters) map[string]float64 {
	if p == nil {
		return nil
	}
	weights := make(map[string]float64)
	for _, w := range p.Weights {
		if w.Value != 0 {
			weights[w.Name] = w.Value
		}
	}
	return weights
}
