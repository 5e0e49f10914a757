package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/model"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func received(id uint32, at time.Duration, app, summary string) model.Record {
	r := model.Record{
		ID:             "r",
		Event:          model.EventReceived,
		Timestamp:      base.Add(at).UnixMilli(),
		NotificationID: id,
		AppName:        app,
		Summary:        summary,
	}
	r.SetUrgency(model.UrgencyNormal)
	return r
}

func closed(id uint32, at time.Duration, reason string) model.Record {
	return model.Record{
		ID:             "c",
		Event:          model.EventClosed,
		Timestamp:      base.Add(at).UnixMilli(),
		NotificationID: id,
		CloseReason:    reason,
	}
}

func TestBuild_PairsRecords(t *testing.T) {
	entries := Build([]model.Record{
		received(1, 0, "mail", "New message"),
		received(2, time.Second, "chat", "ping"),
		closed(1, 5*time.Second, "expired"),
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "expired", entries[0].CloseReason)
	assert.Equal(t, 5*time.Second, entries[0].Duration())
	assert.True(t, entries[1].Open())
	assert.Zero(t, entries[1].Duration())
}

func TestBuild_Replacement(t *testing.T) {
	entries := Build([]model.Record{
		received(1, 0, "player", "Song A"),
		received(1, 2*time.Second, "player", "Song B"),
		closed(1, 3*time.Second, "dismissed"),
	})

	require.Len(t, entries, 2)
	assert.Equal(t, ReasonReplaced, entries[0].CloseReason)
	assert.Equal(t, base.Add(2*time.Second), entries[0].ClosedAt.UTC())
	assert.Equal(t, "Song B", entries[1].Summary)
	assert.Equal(t, "dismissed", entries[1].CloseReason)
}

func TestBuild_IgnoresOrphanClose(t *testing.T) {
	entries := Build([]model.Record{closed(7, 0, "closed")})
	assert.Empty(t, entries)
}

func TestBuild_IDReuseAfterClose(t *testing.T) {
	entries := Build([]model.Record{
		received(1, 0, "a", "first"),
		closed(1, time.Second, "closed"),
		received(1, 2*time.Second, "b", "second"),
	})

	require.Len(t, entries, 2)
	assert.Equal(t, "closed", entries[0].CloseReason)
	assert.True(t, entries[1].Open())
}

func sampleEntries() []Entry {
	now := time.Now()
	return []Entry{
		{NotificationID: 1, AppName: "Firefox", Summary: "Download done", Urgency: 0, ReceivedAt: now.Add(-3 * time.Hour), CloseReason: "expired"},
		{NotificationID: 2, AppName: "slack", Summary: "New message", Body: "lunch?", Urgency: 1, ReceivedAt: now.Add(-30 * time.Minute)},
		{NotificationID: 3, AppName: "firefox", Summary: "Update", Urgency: 2, ReceivedAt: now.Add(-10 * time.Minute), CloseReason: "dismissed"},
	}
}

func TestFilter(t *testing.T) {
	critical := model.UrgencyCritical

	tests := []struct {
		name string
		opts FilterOptions
		ids  []uint32
	}{
		{"no filters", FilterOptions{}, []uint32{1, 2, 3}},
		{"app is case-insensitive", FilterOptions{App: "FIREFOX"}, []uint32{1, 3}},
		{"urgency", FilterOptions{Urgency: &critical}, []uint32{3}},
		{"since", FilterOptions{Since: time.Hour}, []uint32{2, 3}},
		{"open only", FilterOptions{OpenOnly: true}, []uint32{2}},
		{"limit", FilterOptions{Limit: 2}, []uint32{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []uint32
			for _, e := range Filter(sampleEntries(), tt.opts) {
				ids = append(ids, e.NotificationID)
			}
			assert.Equal(t, tt.ids, ids)
		})
	}
}

func TestSearch(t *testing.T) {
	assert.Len(t, Search(sampleEntries(), "LUNCH"), 1)
	assert.Len(t, Search(sampleEntries(), "d"), 2)
	assert.Len(t, Search(sampleEntries(), ""), 3)
	assert.Empty(t, Search(sampleEntries(), "zzz"))
}

func TestSort(t *testing.T) {
	ids := func(es []Entry) []uint32 {
		var out []uint32
		for _, e := range es {
			out = append(out, e.NotificationID)
		}
		return out
	}

	es := sampleEntries()
	Sort(es, DefaultSortOptions())
	assert.Equal(t, []uint32{3, 2, 1}, ids(es))

	Sort(es, SortOptions{Field: SortByTime, Order: SortAsc})
	assert.Equal(t, []uint32{1, 2, 3}, ids(es))

	Sort(es, SortOptions{Field: SortByApp, Order: SortAsc})
	assert.Equal(t, []uint32{1, 3, 2}, ids(es))

	Sort(es, SortOptions{Field: SortByUrgency, Order: SortDesc})
	assert.Equal(t, []uint32{3, 2, 1}, ids(es))
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		err  bool
	}{
		{"", 0, false},
		{"0", 0, false},
		{"48h", 48 * time.Hour, false},
		{"7d", 7 * 24 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseUrgency(t *testing.T) {
	u, err := ParseUrgency("Critical")
	require.NoError(t, err)
	assert.Equal(t, 2, u)

	u, err = ParseUrgency("0")
	require.NoError(t, err)
	assert.Equal(t, 0, u)

	_, err = ParseUrgency("urgent")
	assert.Error(t, err)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortByApp, ParseSortField("a"))
	assert.Equal(t, SortByTime, ParseSortField("whatever"))
	assert.Equal(t, SortAsc, ParseSortOrder("ascending"))
	assert.Equal(t, SortDesc, ParseSortOrder(""))
}
