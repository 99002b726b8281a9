package health

import (
	"context"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestHandler_healthCheck(t *testing.T) {
	handler := NewHandler(slog.Default(), huma.Middlewares{})

	before := time.Now().UTC()
	output, err := handler.healthCheck(context.Background(), &Input{})
	require.NoError(t, err)
	require.NotNil(t, output)

	assert.Equal(t, "Ok", output.Body.Status)
	assert.Equal(t, serviceName, output.Body.Service)

	// Серверное время отдается в UTC и соответствует моменту ответа
	assert.False(t, output.Body.Time.Before(before))
	assert.False(t, output.Body.Time.After(time.Now().UTC()))
}
