package orders

import (
	"context"
	"strings"

	"near2door-tracker/internal/domain"
)

type actionFunc func(context.Context, string, domain.OrderStatus) error

type actionFactory struct {
	byStatus map[string]domain.OrderStatus
	progress actionFunc
	final    actionFunc
}

func newActionFactory(onProgress, onFinalized actionFunc) *actionFactory {
	byStatus := make(map[string]domain.OrderStatus)
	for _, s := range domain.AllStatuses() {
		byStatus[string(s)] = s
	}
	// spellings seen on older producers
	byStatus["canceled"] = domain.StatusCancelled
	byStatus["picked-up"] = domain.StatusPickedUp
	byStatus["completed"] = domain.StatusDelivered

	return &actionFactory{byStatus: byStatus, progress: onProgress, final: onFinalized}
}

func (f *actionFactory) get(status string) (actionFunc, domain.OrderStatus, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	st, ok := f.byStatus[status]
	if !ok {
		return nil, "", false
	}
	if st.Terminal() {
		return f.final, st, true
	}
	return f.progress, st, true
}
