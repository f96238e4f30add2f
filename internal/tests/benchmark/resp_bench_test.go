package benchmark

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/yndnr/respkv/pkg/resp"
)

func command(args ...string) resp.Array {
	out := make(resp.Array, len(args))
	for i, a := range args {
		out[i] = resp.BulkString(a)
	}
	return out
}

// BenchmarkDecodeCommand benchmarks decoding a SET request by value size.
func BenchmarkDecodeCommand(b *testing.B) {
	for _, size := range []int{16, 1024, 64 * 1024} {
		b.Run(fmt.Sprintf("value_%d", size), func(b *testing.B) {
			wire := resp.Encode(command("SET", "key", strings.Repeat("x", size)))
			r := bytes.NewReader(wire)
			br := bufio.NewReader(r)

			b.SetBytes(int64(len(wire)))
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				r.Reset(wire)
				br.Reset(r)
				if _, err := resp.NewDecoder(br).Decode(); err != nil {
					b.Fatalf("Decode failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkEncodeHGetAllReply benchmarks encoding a flattened hash reply.
func BenchmarkEncodeHGetAllReply(b *testing.B) {
	for _, fields := range []int{10, 1000} {
		b.Run(fmt.Sprintf("fields_%d", fields), func(b *testing.B) {
			reply := make(resp.Array, 0, 2*fields)
			for i := 0; i < fields; i++ {
				reply = append(reply, resp.BulkString(fmt.Sprintf("field:%d", i)), resp.BulkString("value"))
			}
			enc := resp.NewEncoder(io.Discard)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if err := enc.Encode(reply); err != nil {
					b.Fatalf("Encode failed: %v", err)
				}
			}
		})
	}
}
