package bifurcx

// Source is the read-only view a render bridge keeps of a running Graph.
type Source interface {
	// Active reports whether a run is still producing points.
	Active() bool
	// Points returns a copy of the live points.
	Points() []Coordinate
}

// Observer receives point-collection mutations and run lifecycle transitions.
// Calls arrive synchronously from the Graph and must not call back into
// Start, Stop or Clear.
type Observer interface {
	Started(src Source)
	// Plotted fires exactly once per accepted point.
	Plotted(c Coordinate)
	// Patched fires when existing slots were rewritten in place.
	Patched()
	Cleared()
	// Stopped fires once per run, while Source.Active still reports true.
	Stopped()
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Started(Source)     {}
func (NopObserver) Plotted(Coordinate) {}
func (NopObserver) Patched()           {}
func (NopObserver) Cleared()           {}
func (NopObserver) Stopped()           {}

// Tee fans every notification out to each observer in order.
func Tee(observers ...Observer) Observer {
	return tee(observers)
}

type tee []Observer

func (t tee) Started(src Source) {
	for _, o := range t {
		o.Started(src)
	}
}

func (t tee) Plotted(c Coordinate) {
	for _, o := range t {
		o.Plotted(c)
	}
}

func (t tee) Patched() {
	for _, o := range t {
		o.Patched()
	}
}

func (t tee) Cleared() {
	for _, o := range t {
		o.Cleared()
	}
}

func (t tee) Stopped() {
	for _, o := range t {
		o.Stopped()
	}
}
