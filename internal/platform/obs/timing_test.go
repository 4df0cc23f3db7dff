package obs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ctx := WithRequestID(context.Background(), "abc")
	err := errors.New("boom")
	Time(ctx, "routing.batch")(&err)

	out := buf.String()
	assert.Contains(t, out, "req_id=abc")
	assert.Contains(t, out, "op=routing.batch")
	assert.Contains(t, out, "err=boom")
}

func TestRequestIDMissing(t *testing.T) {
	assert.Equal(t, "", RequestID(context.Background()))
}
