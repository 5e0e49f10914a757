package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/skalanux/ktm/internal/history"
	"github.com/skalanux/ktm/internal/model"
)

func testEntries() []history.Entry {
	now := time.Now()
	return []history.Entry{
		{
			NotificationID: 4,
			AppName:        "Firefox",
			Summary:        "Download Complete",
			Body:           "myfile.zip has\nfinished <b>downloading</b>",
			Urgency:        model.UrgencyNormal,
			UrgencyName:    "normal",
			ReceivedAt:     now.Add(-5 * time.Minute),
			ClosedAt:       now.Add(-4 * time.Minute),
			CloseReason:    "expired",
		},
		{
			NotificationID: 5,
			AppName:        "Slack",
			Summary:        "New Message",
			Urgency:        model.UrgencyCritical,
			UrgencyName:    "critical",
			ReceivedAt:     now.Add(-2 * time.Hour),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatPlain, DefaultOptions()).Format(&buf, testEntries()))

	out := buf.String()
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "<Firefox>")
	assert.Contains(t, out, "Download Complete")
	assert.Contains(t, out, "myfile.zip has finished downloading")
	assert.Contains(t, out, "5 minutes ago, expired after 1 minute")
	assert.Contains(t, out, "2 hours ago, open")
	assert.NotContains(t, out, "<b>")
}

func TestPlainFormatter_Template(t *testing.T) {
	opts := DefaultOptions()
	opts.Template = `{{.Index}} {{.Entry.AppName}} {{urgencyIcon .Entry.Urgency}} {{truncate .Entry.Summary 6}}`

	var buf bytes.Buffer
	require.NoError(t, NewPlainFormatter(opts).Format(&buf, testEntries()))

	assert.Equal(t, "1 Firefox - Dow...\n2 Slack ! New...\n", buf.String())
}

func TestDmenuFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatDmenu, DefaultOptions()).Format(&buf, testEntries()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "1 | 5m | Firefox | Download Complete: myfile.zip has finished downloading", lines[0])
	assert.Equal(t, "2 | 2h | Slack | New Message", lines[1])
}

func TestDmenuFormatter_BodyLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowIndex = false
	opts.BodyMaxLen = 10
	opts.Separator = "\t"

	var buf bytes.Buffer
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testEntries()[:1]))
	assert.Equal(t, "5m\tFirefox\tDownload Complete: myfile....\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON, DefaultOptions()).Format(&buf, testEntries()))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Firefox", decoded[0]["app_name"])
	assert.Equal(t, "expired", decoded[0]["close_reason"])
	assert.NotContains(t, decoded[1], "closed_at")
	assert.NotContains(t, decoded[1], "close_reason")
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONFormatter{}).Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML, DefaultOptions()).Format(&buf, testEntries()))

	var decoded []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "Slack", decoded[1]["app_name"])
	assert.Equal(t, "critical", decoded[1]["urgency_name"])
	assert.NotContains(t, decoded[1], "closed_at")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", truncate("héllo", 5))
	assert.Equal(t, "hé...", truncate("héllo wörld", 5))
	assert.Equal(t, "hé", truncate("héllo", 2))
	assert.Equal(t, "abc", truncate("abc", 0))
}
