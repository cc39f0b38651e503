package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonService/internal/domain"
	"github.com/m04kA/SMC-SalonService/pkg/ptr"
)

func TestApplyFilter_OverlapRange(t *testing.T) {
	from := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	query, args, err := applyFilter((&Repository{}).baseSelect(), domain.AppointmentFilter{
		From:       &from,
		To:         &to,
		Statuses:   domain.BlockingStatuses,
		CustomerID: ptr.Ptr(int64(7)),
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "a.starts_at < $1")
	assert.Contains(t, query, "a.ends_at > $2")
	assert.Contains(t, query, "a.status IN ($3,$4,$5)")
	assert.Contains(t, query, "a.customer_id = $6")
	assert.Contains(t, query, "LEFT JOIN customers c ON c.id = a.customer_id")
	assert.Equal(t, []interface{}{to, from, "booked", "confirmed", "done", int64(7)}, args)
}

func TestApplyFilter_Empty(t *testing.T) {
	query, args, err := applyFilter((&Repository{}).baseSelect(), domain.AppointmentFilter{}).ToSql()
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.Empty(t, args)
}
