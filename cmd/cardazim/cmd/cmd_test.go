package cmd

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardazim/cardazim/pkg/card"
	"github.com/cardazim/cardazim/pkg/config"
	"github.com/cardazim/cardazim/pkg/cryptimage"
	"github.com/cardazim/cardazim/pkg/di"
	"github.com/cardazim/cardazim/pkg/protocol"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func setupCommandTest(t *testing.T) {
	t.Helper()

	SetContainer(di.NewContainer())
	cfg = config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	logger, _ = test.NewNullLogger()

	t.Cleanup(func() {
		SetContainer(nil)
		cfg = nil
		logger = nil
	})
}

func writeTestImage(t *testing.T) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 255})

	path := filepath.Join(t.TempDir(), "smile.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()
	require.NoError(t, png.Encode(file, img))
	return path
}

func testSendOptions(t *testing.T, port int) sendOptions {
	return sendOptions{
		host:      "127.0.0.1",
		port:      port,
		name:      "cardoz",
		creator:   "lidor",
		imagePath: writeTestImage(t),
		riddle:    "coming here a lot?",
		solution:  "yes!",
	}
}

// storeTestCard writes an encrypted card straight into the configured store
func storeTestCard(t *testing.T) string {
	t.Helper()

	raw, err := cryptimage.NewRawImage(2, 1, []byte{10, 20, 30, 40, 50, 60})
	require.NoError(t, err)
	c := card.New("cardoz", "lidor", cryptimage.New(raw), "coming here a lot?", "yes!")
	c.Image.Encrypt("yes!")
	data, err := c.Serialize()
	require.NoError(t, err)

	store, err := openStore()
	require.NoError(t, err)
	defer store.Close()

	id, err := store.Put(data, "127.0.0.1:4242")
	require.NoError(t, err)
	return id.String()
}

func TestSendCard(t *testing.T) {
	setupCommandTest(t)

	listener, err := protocol.Listen("127.0.0.1", 0, 4)
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			close(received)
			return
		}
		defer conn.Close()
		payload, err := conn.ReceiveMessage()
		if err != nil {
			close(received)
			return
		}
		received <- payload
	}()

	opts := testSendOptions(t, listener.Addr().(*net.TCPAddr).Port)
	opts.savePath = filepath.Join(t.TempDir(), "cardoz.card")

	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, sendCard(ctx, &out, opts))
	assert.Equal(t, "Done.\n", out.String())

	payload, ok := <-received
	require.True(t, ok, "collector side failed to receive")

	saved, err := os.ReadFile(opts.savePath)
	require.NoError(t, err)
	assert.Equal(t, payload, saved)

	c, err := card.Deserialize(payload)
	require.NoError(t, err)
	assert.Equal(t, "cardoz", c.Name)
	assert.False(t, c.Solve("no!"))
	require.True(t, c.Solve("yes!"))
	assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, c.Image.Image.Pixels)
}

func TestSendCard_Errors(t *testing.T) {
	setupCommandTest(t)

	t.Run("missing image", func(t *testing.T) {
		opts := testSendOptions(t, 1)
		opts.imagePath = filepath.Join(t.TempDir(), "missing.png")

		err := sendCard(context.Background(), &bytes.Buffer{}, opts)
		assert.Error(t, err)
	})

	t.Run("connection refused", func(t *testing.T) {
		listener, err := protocol.Listen("127.0.0.1", 0, 4)
		require.NoError(t, err)
		port := listener.Addr().(*net.TCPAddr).Port
		listener.Close()

		var out bytes.Buffer
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err = sendCard(ctx, &out, testSendOptions(t, port))
		assert.Error(t, err)
		assert.NotContains(t, out.String(), "Done.")
	})
}

func TestServe_CollectsCards(t *testing.T) {
	setupCommandTest(t)

	out := &syncBuffer{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	server := cfg.Server
	server.Port = 0
	done := make(chan error, 1)
	go func() { done <- serve(ctx, out, server, config.API{}) }()

	var port int
	require.Eventually(t, func() bool {
		line, _, found := strings.Cut(out.String(), "\n")
		addr, ok := strings.CutPrefix(line, "Listening on ")
		if !found || !ok {
			return false
		}
		tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
		if err != nil {
			return false
		}
		port = tcpAddr.Port
		return true
	}, 5*time.Second, 10*time.Millisecond)

	sendCtx, sendCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer sendCancel()
	require.NoError(t, sendCard(sendCtx, &bytes.Buffer{}, testSendOptions(t, port)))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Received card: Card cardoz by lidor")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}

	var listing bytes.Buffer
	require.NoError(t, listCards(&listing))
	assert.Contains(t, listing.String(), "cardoz")
	assert.Contains(t, listing.String(), "lidor")
}

func TestListCards_Empty(t *testing.T) {
	setupCommandTest(t)

	var out bytes.Buffer
	require.NoError(t, listCards(&out))
	assert.Equal(t, "No cards received yet.\n", out.String())
}

func TestSolveCard(t *testing.T) {
	setupCommandTest(t)
	id := storeTestCard(t)

	t.Run("wrong solution", func(t *testing.T) {
		err := solveCard(&bytes.Buffer{}, id, "no!", "")
		assert.True(t, errors.Is(err, errWrongSolution), "expected errWrongSolution, got %v", err)
	})

	t.Run("invalid id", func(t *testing.T) {
		err := solveCard(&bytes.Buffer{}, "nope", "yes!", "")
		assert.Error(t, err)
	})

	t.Run("right solution", func(t *testing.T) {
		imagePath := filepath.Join(t.TempDir(), "solved.png")

		var out bytes.Buffer
		require.NoError(t, solveCard(&out, id, "yes!", imagePath))
		assert.Contains(t, out.String(), "Solution: yes!")
		assert.Contains(t, out.String(), "Image saved to "+imagePath)

		raw, err := cryptimage.LoadRawImage(imagePath)
		require.NoError(t, err)
		assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, raw.Pixels)
	})

	t.Run("show after solve", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, showCard(&out, id, ""))
		assert.Contains(t, out.String(), "ID: "+id)
		assert.Contains(t, out.String(), "from 127.0.0.1:4242")
		assert.Contains(t, out.String(), "Solution: yes!")
	})
}

func TestInspectCard(t *testing.T) {
	setupCommandTest(t)

	raw, err := cryptimage.NewRawImage(2, 1, []byte{10, 20, 30, 40, 50, 60})
	require.NoError(t, err)
	c := card.New("cardoz", "lidor", cryptimage.New(raw), "coming here a lot?", "yes!")
	c.Image.Encrypt("yes!")
	data, err := c.Serialize()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cardoz.card")
	require.NoError(t, os.WriteFile(path, data, 0600))

	t.Run("without solution", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, inspectCard(&out, path, "", ""))
		assert.Contains(t, out.String(), "2x1 image")
		assert.Contains(t, out.String(), "Solution: unsolved")
	})

	t.Run("wrong solution", func(t *testing.T) {
		err := inspectCard(&bytes.Buffer{}, path, "no!", "")
		assert.True(t, errors.Is(err, errWrongSolution))
	})

	t.Run("right solution", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, inspectCard(&out, path, "yes!", ""))
		assert.Contains(t, out.String(), "Solution: yes!")
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.card")
		require.NoError(t, os.WriteFile(bad, data[:len(data)-1], 0600))
		assert.Error(t, inspectCard(&bytes.Buffer{}, bad, "", ""))
	})
}

func TestInitConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "cardazim", "config.yaml")

	var out bytes.Buffer
	require.NoError(t, initConfig(&out, configPath, "./cards", false, true))
	assert.Contains(t, out.String(), "Configuration written to "+configPath)
	assert.Contains(t, out.String(), "API key: ")

	loaded, err := config.LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "./cards", loaded.DataDir)
	assert.Len(t, loaded.API.APIKey, 64)

	err = initConfig(&bytes.Buffer{}, configPath, "", false, false)
	assert.Error(t, err, "existing config must not be overwritten without --force")

	require.NoError(t, initConfig(&bytes.Buffer{}, configPath, "", true, false))
}

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{input: "8000", want: 8000},
		{input: "0", want: 0},
		{input: "65535", want: 65535},
		{input: "65536", wantErr: true},
		{input: "-1", wantErr: true},
		{input: "http", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePort(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommand_ListWithConfigFile(t *testing.T) {
	SetContainer(di.NewContainer())
	defer SetContainer(nil)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	written := config.DefaultConfig()
	written.DataDir = filepath.Join(dir, "data")
	written.Logging.Level = "error"
	require.NoError(t, config.SaveConfig(written, configPath))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", configPath, "list"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "No cards received yet.\n", out.String())
	assert.Equal(t, written.DataDir, cfg.DataDir)
	assert.DirExists(t, written.DataDir)
}

func TestRootCommand_MissingExplicitConfig(t *testing.T) {
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "list"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")
}
