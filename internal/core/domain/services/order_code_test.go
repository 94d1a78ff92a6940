package services_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"ordertracker/internal/core/domain/services"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCodeGenerator_Next(t *testing.T) {
	t.Run("should prefix a parseable ULID", func(t *testing.T) {
		gen := services.NewOrderCodeGenerator(nil)

		code := gen.Next()

		require.True(t, strings.HasPrefix(code.String(), services.OrderCodePrefix))
		_, err := ulid.ParseStrict(strings.TrimPrefix(code.String(), services.OrderCodePrefix))
		assert.NoError(t, err)
	})

	t.Run("should sort codes issued within the same millisecond", func(t *testing.T) {
		frozen := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		gen := services.NewOrderCodeGenerator(func() time.Time { return frozen })

		previous := gen.Next()
		for range 100 {
			next := gen.Next()
			assert.Greater(t, next.String(), previous.String())
			previous = next
		}
	})

	t.Run("should stay unique across goroutines", func(t *testing.T) {
		gen := services.NewOrderCodeGenerator(nil)
		const workers, perWorker = 8, 200

		var (
			mu    sync.Mutex
			wg    sync.WaitGroup
			codes = make(map[string]struct{}, workers*perWorker)
		)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWorker {
					code := gen.Next().String()
					mu.Lock()
					codes[code] = struct{}{}
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, codes, workers*perWorker)
	})
}
