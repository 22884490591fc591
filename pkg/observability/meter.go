package observability

type Meter interface {
	Counter(name string, opts ...MetricOpt) Counter
	Histogram(name string, opts ...MetricOpt) Histogram
	Gauge(name string, opts ...MetricOpt) Gauge
	Timer(name string, opts ...MetricOpt) Timer
}

type Counter interface {
	Inc(v float64, labels ...Label)
}

type Histogram interface {
	Observe(v float64, labels ...Label)
}

type Gauge interface {
	Set(v float64, labels ...Label)
	Add(v float64, labels ...Label)
}

// Timer observes the elapsed seconds when the returned func is called.
type Timer interface {
	Start(labels ...Label) func()
}

type Label struct {
	Key   string
	Value string
}

// MetricOpt describes a metric. LabelKeys are the variable labels passed at
// record time; ConstLabels are fixed at registration.
type MetricOpt struct {
	Help        string
	Buckets     []float64
	ConstLabels []Label
	LabelKeys   []string
	Unit        string
}
