package redisserver

import (
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		reply Reply
		want  string
	}{
		{"simple status", SimpleStatus("OK"), "+OK\r\n"},
		{"error status", ErrorStatus("ERR protocol error"), "-ERR protocol error\r\n"},
		{"zero integer", Integer(0), ":0\r\n"},
		{"integer", Integer(2), ":2\r\n"},
		{"negative integer", Integer(-7), ":-7\r\n"},
		{"bulk", Bulk([]byte("hello")), "$5\r\nhello\r\n"},
		{"empty bulk", Bulk([]byte{}), "$0\r\n\r\n"},
		{"nil bulk is empty", Bulk(nil), "$0\r\n\r\n"},
		{"multi-byte bulk", Bulk([]byte("héllo")), "$6\r\nhéllo\r\n"},
		{"null bulk", NullBulk, "$-1\r\n"},
		{"empty array", Array{}, "*0\r\n"},
		{
			"array of bulks",
			Array{Bulk([]byte("a")), Bulk([]byte("b"))},
			"*2\r\n$1\r\na\r\n$1\r\nb\r\n",
		},
		{
			"mixed array",
			Array{Integer(1), NullBulk, Array{SimpleStatus("OK")}},
			"*3\r\n:1\r\n$-1\r\n*1\r\n+OK\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.reply)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

type bogusReply struct{}

func (bogusReply) reply() {}

func TestEncode_UnsupportedType(t *testing.T) {
	if _, err := Encode(bogusReply{}); err == nil {
		t.Error("Encode(bogusReply) should return an error")
	}
	if _, err := Encode(Array{bogusReply{}}); err == nil {
		t.Error("Encode(Array{bogusReply}) should return an error")
	}
}
