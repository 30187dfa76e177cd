package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partition = "year=2024/month=05/day=01/hour=12"

func encode(t *testing.T, ev models.OrderEvent) models.EventMessage {
	t.Helper()
	msg, err := Encode(ev)
	require.NoError(t, err)
	return msg
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleOutput(&buf)
	require.NoError(t, c.WriteMessage("t", []byte(`{"a":1}`)))
	require.NoError(t, c.Close())
	assert.Equal(t, "[t] {\"a\":1}\n", buf.String())
}

func TestJSONOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewJSONOutput(dir, "events")

	placed := encode(t, placedEvent())
	status := encode(t, statusEvent())
	require.NoError(t, out.WriteMessage(placed.Topic, placed.Message))
	require.NoError(t, out.WriteMessage(status.Topic, status.Message))
	require.NoError(t, out.WriteMessage(status.Topic, status.Message))
	require.NoError(t, out.Close())

	data, err := os.ReadFile(filepath.Join(dir, "events", models.TopicOrderStatus, partition, "data.json"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.JSONEq(t, string(status.Message), lines[0])

	_, err = os.Stat(filepath.Join(dir, "events", models.TopicOrderPlaced, partition, "data.json"))
	assert.NoError(t, err)
}

func TestJSONOutputRejectsMissingTimestamp(t *testing.T) {
	out := NewJSONOutput(t.TempDir(), "events")
	assert.Error(t, out.WriteMessage("x", []byte(`{"orderId":"a"}`)))
}

func TestCSVOutput(t *testing.T) {
	dir := t.TempDir()
	out := NewCSVOutput(dir, "events")

	status := encode(t, statusEvent())
	require.NoError(t, out.WriteMessage(status.Topic, status.Message))
	require.NoError(t, out.Close())

	f, err := os.Open(filepath.Join(dir, "events", models.TopicOrderStatus, partition, "data.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"changedAt", "eventType", "orderId", "previousStatus", "restaurant", "status", "timestamp"}, rows[0])
	assert.Equal(t, []string{
		"1714566956", models.EventOrderStatusChanged, "ORD64800123ABCD", "pending",
		models.DefaultRestaurantName, "confirmed", "1714566956",
	}, rows[1])
}

func TestNewDestination(t *testing.T) {
	cfg := &models.Config{Output: models.OutputConfig{Format: "console"}}
	dest, err := NewDestination(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &ConsoleOutput{}, dest)

	cfg.Output = models.OutputConfig{Format: "json", Path: t.TempDir(), Folder: "e"}
	dest, err = NewDestination(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &JSONOutput{}, dest)

	cfg.Output.Format = "xml"
	_, err = NewDestination(context.Background(), cfg)
	assert.Error(t, err)
}
