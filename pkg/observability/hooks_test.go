package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, 10, 20)
	r.OnRenderComplete(ctx, RenderResult{Nodes: 10, Links: 19, Dropped: 1}, time.Second, nil)
	r.OnClear(ctx)
	r.OnResize(ctx, 800, 600)

	s := NoopSimulationHooks{}
	s.OnSimulationStart("sim", 10, 20)
	s.OnTick("sim", 0.5)
	s.OnSimulationEnd("sim", "cooled", 300, time.Second)

	p := NoopPipelineHooks{}
	p.OnLoadComplete(ctx, "movies.json", 10, 20, time.Millisecond, nil)
	p.OnExportStart(ctx, []string{"svg"})
	p.OnExportComplete(ctx, "svg", 1024, time.Millisecond, nil)
	p.OnCacheLookup(ctx, "layout", false)

	i := NoopInteractionHooks{}
	i.OnDrag("start", "m1")
	i.OnZoom(2)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Interaction().(NoopInteractionHooks); !ok {
		t.Error("Interaction() should return NoopInteractionHooks by default")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customSim := &testSimulationHooks{}
	SetSimulationHooks(customSim)
	if Simulation() != customSim {
		t.Error("SetSimulationHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customInteraction := &testInteractionHooks{}
	SetInteractionHooks(customInteraction)
	if Interaction() != customInteraction {
		t.Error("SetInteractionHooks should set custom hooks")
	}

	Reset()
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Reset() should restore NoopRenderHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRenderHooks{}
	SetRenderHooks(custom)
	SetRenderHooks(nil)

	if Render() != custom {
		t.Error("SetRenderHooks(nil) should be ignored")
	}

	Reset()
}

type testRenderHooks struct{ NoopRenderHooks }
type testSimulationHooks struct{ NoopSimulationHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testInteractionHooks struct{ NoopInteractionHooks }
