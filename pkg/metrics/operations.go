package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	pkgerrors "github.com/angelmondragon/contactbook-backend/pkg/errors"
)

const outcomeOK = "ok"

// OperationMetrics counts contact book operations by outcome.
type OperationMetrics struct {
	total *prometheus.CounterVec
}

// NewOperationMetrics registers the operation counter on the provided registerer.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contactbook_operations_total",
		Help: "Contact book operations partitioned by operation and outcome code.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(total)
	return &OperationMetrics{total: total}
}

// Observe records one finished operation. Untyped errors count as internal.
func (m *OperationMetrics) Observe(operation string, err error) {
	if m == nil || m.total == nil {
		return
	}
	m.total.WithLabelValues(normalizeLabel(operation), outcomeFor(err)).Inc()
}

func outcomeFor(err error) string {
	if err == nil {
		return outcomeOK
	}
	if typed := pkgerrors.As(err); typed != nil {
		return strings.ToLower(string(typed.Code()))
	}
	return strings.ToLower(string(pkgerrors.CodeInternal))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
