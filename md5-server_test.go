// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5digest

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerGolden(t *testing.T) {
	server, err := NewServer()
	require.NoError(t, err)
	defer server.Close()

	for i, g := range golden {
		got, err := server.SumHex([]byte(g.in))
		require.NoError(t, err)
		assert.Equal(t, g.want, got, "TestServerGolden[%d]", i)
	}
}

func TestServerSumAll(t *testing.T) {
	server, err := NewServer(WithConcurrency(3))
	require.NoError(t, err)
	defer server.Close()

	msgs := make([][]byte, len(golden))
	for i, g := range golden {
		msgs[i] = []byte(g.in)
	}
	sums, err := server.SumAll(msgs)
	require.NoError(t, err)
	require.Len(t, sums, len(golden))
	for i, g := range golden {
		assert.Equal(t, g.want, hex.EncodeToString(sums[i][:]), "TestServerSumAll[%d]", i)
	}

	sums, err = server.SumAll(nil)
	require.NoError(t, err)
	assert.Empty(t, sums)
}

func TestServerClose(t *testing.T) {
	server, err := NewServer(WithConcurrency(1))
	require.NoError(t, err)

	_, err = server.Sum([]byte("abc"))
	require.NoError(t, err)

	server.Close()
	server.Close()

	_, err = server.Sum([]byte("abc"))
	assert.Equal(t, ErrServerClosed, err)
	_, err = server.SumHex([]byte("abc"))
	assert.Equal(t, ErrServerClosed, err)
	_, err = server.SumAll([][]byte{[]byte("abc")})
	assert.Equal(t, ErrServerClosed, err)
}

func TestServerInvalidOption(t *testing.T) {
	_, err := NewServer(WithConcurrency(0))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency must be at least 1")

	_, err = New(WithConcurrency(-1))
	require.Error(t, err)
}

func testServerSimulator(t *testing.T, concurrency, iterations, maxSize int, server *Server) {
	// Use deterministic RNG.
	rng := rand.New(rand.NewSource(0xabad1dea))

	for i := 0; i < iterations; i++ {
		var wg sync.WaitGroup
		wg.Add(concurrency)
		for j := 0; j < concurrency; j++ {
			size := 1 + rng.Intn(maxSize)
			go func(i, j int) {
				defer wg.Done()
				input := bytes.Repeat([]byte{0x61 + byte(i^j)}, size)
				got, err := server.Sum(input)
				if err != nil {
					t.Errorf("sum: %v", err)
					return
				}
				if want := md5.Sum(input); got != want {
					t.Errorf("got %x, want %x", got, want)
				}
			}(i, j)
		}
		wg.Wait()
	}
}

func TestServerSimulator(t *testing.T) {
	iterations := 100
	if testing.Short() {
		iterations = 10
	}

	for _, c := range []int{1, 16, 19} {
		c := c
		t.Run(fmt.Sprint("c", c), func(t *testing.T) {
			server, err := NewServer(WithConcurrency(4))
			require.NoError(t, err)
			t.Cleanup(server.Close)
			t.Parallel()
			testServerSimulator(t, c, iterations, 64<<10, server)
		})
	}
}

func BenchmarkServerSumAll(b *testing.B) {
	server, err := NewServer()
	require.NoError(b, err)
	defer server.Close()

	msgs := make([][]byte, 16)
	for i := range msgs {
		msgs[i] = bytes.Repeat([]byte{0x61 + byte(i)}, 32*1024)
	}
	b.SetBytes(int64(16 * 32 * 1024))
	b.ReportAllocs()
	b.ResetTimer()

	for j := 0; j < b.N; j++ {
		if _, err := server.SumAll(msgs); err != nil {
			b.Fatal(err)
		}
	}
}
