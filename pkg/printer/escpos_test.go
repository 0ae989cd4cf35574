package printer

import (
	"bytes"
	"context"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "Maria Garcia", Fold("María García"))
	assert.Equal(t, "Pina colada con nino", Fold("Piña colada con niño"))
	assert.Equal(t, "?Listo?", Fold("¿Listo?"))
	assert.Equal(t, "plain", Fold("plain"))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{"fits", "Pastel de Chocolate", 20, []string{"Pastel de Chocolate"}},
		{"breaks on spaces", "Pastel de Chocolate", 10, []string{"Pastel de", "Chocolate"}},
		{"splits long words", "Cheesecakeneoyorquino", 10, []string{"Cheesecake", "neoyorquin", "o"}},
		{"empty", "", 10, []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.in, tt.width))
		})
	}
}

func TestKeyValueJustifiesToWidth(t *testing.T) {
	doc := NewDocument(Width58mm)
	doc.KeyValue("Cliente:", "María")

	lines := bytes.Split(doc.Bytes()[2:], []byte{LF})
	assert.Equal(t, "Cliente:"+strings.Repeat(" ", 19)+"Maria", string(lines[0]))
	assert.Len(t, lines[0], Width58mm)
}

func TestItemLineWrapsLongNames(t *testing.T) {
	doc := NewDocument(24)
	doc.ItemLine(2, "Pastel de Chocolate con fresas", "400.00")

	lines := bytes.Split(bytes.TrimSuffix(doc.Bytes()[2:], []byte{LF}), []byte{LF})
	require.Len(t, lines, 3)
	assert.Equal(t, "2x Pastel de"+strings.Repeat(" ", 6)+"400.00", string(lines[0]))
	assert.Equal(t, "   Chocolate con", string(lines[1]))
	assert.Equal(t, "   fresas", string(lines[2]))
}

func TestNew(t *testing.T) {
	p, err := New(Config{Type: "none"})
	require.NoError(t, err)
	assert.IsType(t, &Recorder{}, p)
	assert.False(t, p.IsConnected(context.Background()))

	_, err = New(Config{Type: "usb"})
	assert.Error(t, err)
	_, err = New(Config{Type: "network"})
	assert.Error(t, err)
	_, err = New(Config{Type: "bluetooth"})
	assert.Error(t, err)

	assert.False(t, Config{Type: "none"}.Configured())
	assert.True(t, Config{Type: "usb", USBPath: "/dev/usb/lp0"}.Configured())
}

func TestNetworkPrinterWritesJob(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	received := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(conn)
		received <- buf.Bytes()
	}()

	p, err := New(Config{Type: "network", Address: ln.Addr().String()})
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte("receipt")))
	assert.Equal(t, []byte("receipt"), <-received)
}

func TestRecorderKeepsJobs(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Print(context.Background(), []byte("a")))
	require.NoError(t, r.Print(context.Background(), []byte("b")))
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, r.Jobs())
}
