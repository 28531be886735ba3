package widget

import (
	"context"

	"recwidget/widget/activation"
	"recwidget/widget/dom"
)

// Widget ties one orchestrator to its activation gates for the lifetime of
// an attached host element.
type Widget struct {
	orch    *Orchestrator
	trigger *activation.Trigger
}

// Attach arms the widget on its host element. The orchestrator never runs
// before the element approaches the viewport or an external configuration
// change lands.
func Attach(opts Options, vp *dom.Viewport, margin int) *Widget {
	orch := New(opts)
	trigger := activation.New(activation.Options{
		Element:  opts.Element,
		Viewport: vp,
		Margin:   margin,
		Run: func(ctx context.Context) {
			orch.Run(ctx)
		},
	})
	w := &Widget{orch: orch, trigger: trigger}
	trigger.Start()
	return w
}

// Detach disconnects both gates. Must be called when the host element
// leaves the document; the orchestrator is never invoked afterwards.
func (w *Widget) Detach() {
	w.trigger.Stop()
}

func (w *Widget) State() State {
	return w.orch.State()
}
