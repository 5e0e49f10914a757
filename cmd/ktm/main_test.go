package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/esiqveland/notify"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skalanux/ktm/internal/config"
	"github.com/skalanux/ktm/internal/model"
	"github.com/skalanux/ktm/internal/store"
)

func setupGlobals(t *testing.T) {
	t.Helper()
	cfg = config.DefaultDaemonConfig()
	logger = slog.Default()
}

func outputCmd() (*cobra.Command, *bytes.Buffer) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)
	return cmd, &buf
}

func TestUnreadStatus(t *testing.T) {
	empty := unreadStatus(0)
	assert.Equal(t, "", empty.Text)
	assert.Equal(t, "empty", empty.Class)

	one := unreadStatus(1)
	assert.Equal(t, "1", one.Text)
	assert.Equal(t, "1 unread message", one.Tooltip)
	assert.Equal(t, "unread", one.Class)

	assert.Equal(t, "7 unread messages", unreadStatus(7).Tooltip)
}

func TestRunUnread(t *testing.T) {
	setupGlobals(t)
	path := filepath.Join(t.TempDir(), "unread")
	counter := store.NewUnreadCounter(path)
	require.NoError(t, counter.Increment())
	require.NoError(t, counter.Increment())

	unreadOpts.file = path
	unreadOpts.reset = false
	unreadOpts.waybar = true
	t.Cleanup(func() { unreadOpts.file, unreadOpts.waybar, unreadOpts.reset = "", false, false })

	cmd, buf := outputCmd()
	require.NoError(t, runUnread(cmd, nil))

	var status WaybarStatus
	require.NoError(t, json.Unmarshal(buf.Bytes(), &status))
	assert.Equal(t, "2", status.Text)

	unreadOpts.waybar = false
	unreadOpts.reset = true
	cmd, buf = outputCmd()
	require.NoError(t, runUnread(cmd, nil))
	assert.Equal(t, "0\n", buf.String())
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "17"})
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 17}, ids)

	_, err = parseIDs([]string{"0"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"abc"})
	assert.Error(t, err)
	_, err = parseIDs([]string{"4294967296"})
	assert.Error(t, err)
}

func TestBuildNotification(t *testing.T) {
	saved := sendOpts
	t.Cleanup(func() { sendOpts = saved })

	sendOpts.appName = "make"
	sendOpts.urgency = "critical"
	sendOpts.timeout = 2500
	sendOpts.replaces = 4
	sendOpts.transient = true
	sendOpts.category = "transfer.complete"

	note, err := buildNotification([]string{"Build done", "All tests passed"})
	require.NoError(t, err)

	assert.Equal(t, "make", note.AppName)
	assert.Equal(t, "Build done", note.Summary)
	assert.Equal(t, "All tests passed", note.Body)
	assert.Equal(t, uint32(4), note.ReplacesID)
	assert.Equal(t, 2500*time.Millisecond, note.ExpireTimeout)
	assert.Equal(t, byte(notify.UrgencyCritical), note.Hints["urgency"].Value())
	assert.Equal(t, true, note.Hints["transient"].Value())
	assert.Equal(t, "transfer.complete", note.Hints["category"].Value())

	sendOpts.urgency = "extreme"
	_, err = buildNotification([]string{"x"})
	assert.Error(t, err)
}

func TestBuildNotification_ServerDefaultTimeout(t *testing.T) {
	saved := sendOpts
	t.Cleanup(func() { sendOpts = saved })

	sendOpts.urgency = "normal"
	sendOpts.timeout = -1

	note, err := buildNotification([]string{"only summary"})
	require.NoError(t, err)
	assert.Equal(t, notify.ExpireTimeoutSetByNotificationServer, note.ExpireTimeout)
	assert.Empty(t, note.Body)
}

func writeJournal(t *testing.T, path string) {
	t.Helper()
	j, err := store.OpenJSONLJournal(path)
	require.NoError(t, err)
	defer j.Close()

	base := time.Now().Add(-time.Minute).UnixMilli()
	add := func(r *model.Record, offset int64) {
		r.Timestamp = base + offset
		require.NoError(t, j.Append(*r))
	}

	r1, err := model.NewReceived(1)
	require.NoError(t, err)
	r1.AppName, r1.Summary = "mail", "New message from Ana"
	add(r1, 0)

	r2, err := model.NewReceived(2)
	require.NoError(t, err)
	r2.AppName, r2.Summary = "make", "Build done"
	r2.SetUrgency(model.UrgencyCritical)
	add(r2, 10)

	c1, err := model.NewClosed(1, "dismissed")
	require.NoError(t, err)
	add(c1, 20)
}

func TestRunHistory(t *testing.T) {
	setupGlobals(t)
	path := filepath.Join(t.TempDir(), "history.jsonl")
	writeJournal(t, path)

	saved := historyOpts
	t.Cleanup(func() { historyOpts = saved })
	historyOpts.file = path
	historyOpts.format = "json"
	historyOpts.sortBy = "time"
	historyOpts.sortOrder = "desc"

	cmd, buf := outputCmd()
	require.NoError(t, runHistory(cmd, nil))

	var entries []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Build done", entries[0]["summary"])
	assert.Equal(t, "dismissed", entries[1]["close_reason"])

	historyOpts.urgency = "critical"
	cmd, buf = outputCmd()
	require.NoError(t, runHistory(cmd, nil))
	var critical []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &critical))
	require.Len(t, critical, 1)
	assert.Equal(t, "make", critical[0]["app_name"])

	historyOpts.urgency = ""
	historyOpts.open = true
	historyOpts.format = "dmenu"
	cmd, buf = outputCmd()
	require.NoError(t, runHistory(cmd, nil))
	assert.Contains(t, buf.String(), "Build done")
	assert.NotContains(t, buf.String(), "Ana")
}

func TestRunHistory_InvalidFlags(t *testing.T) {
	setupGlobals(t)
	saved := historyOpts
	t.Cleanup(func() { historyOpts = saved })
	historyOpts.file = filepath.Join(t.TempDir(), "missing.jsonl")
	historyOpts.format = "plain"

	historyOpts.since = "soon"
	cmd, _ := outputCmd()
	assert.Error(t, runHistory(cmd, nil))

	historyOpts.since = ""
	historyOpts.format = "xml"
	assert.Error(t, runHistory(cmd, nil))
}

func TestRunHistoryClear(t *testing.T) {
	setupGlobals(t)
	path := filepath.Join(t.TempDir(), "history.jsonl")
	writeJournal(t, path)

	saved := historyOpts
	t.Cleanup(func() { historyOpts = saved })
	historyOpts.file = path

	cmd, buf := outputCmd()
	require.NoError(t, runHistoryClear(cmd, nil))
	assert.Contains(t, buf.String(), path)

	records, err := store.ReadJournal(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestHistoryPath(t *testing.T) {
	setupGlobals(t)
	saved := historyOpts
	t.Cleanup(func() { historyOpts = saved })
	t.Setenv("XDG_DATA_HOME", "/data")

	historyOpts.file = ""
	p, err := historyPath()
	require.NoError(t, err)
	assert.Equal(t, "/data/ktm/history.jsonl", p)

	cfg.History.Path = "/var/ktm.jsonl"
	p, err = historyPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/ktm.jsonl", p)

	historyOpts.file = "/tmp/h.jsonl"
	p, err = historyPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.jsonl", p)
}

func TestJournalLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	writeJournal(t, path)

	entries, err := journalLoader(path)()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Build done", entries[0].Summary)
	assert.True(t, entries[0].Open())
	assert.Equal(t, "dismissed", entries[1].CloseReason)

	entries, err = journalLoader(filepath.Join(t.TempDir(), "missing.jsonl"))()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
