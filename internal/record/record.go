// Package record implements the fixed-header, variable-tail record codec
// and the fixed-format sink line renderer described by the external
// interfaces: one opaque frame per log call, one output line per
// newline-delimited segment of its message.
package record

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"
)

const headerSize = 30

// Header is the fixed-size portion of a record frame.
type Header struct {
	Level     uint8
	Timestamp time.Time
	Tid       uint32
	HasTid    bool
	Rank      uint16
	Line      int32
	FileLen   uint16
	FuncLen   uint16
	LoggerLen uint16
	MsgLen    uint32
}

// Frame is a single heap-allocated buffer holding a header followed by the
// four variable-length strings it describes, concatenated without
// separators. Ownership transfers to whichever channel receives it.
type Frame struct {
	Data []byte
}

// Encode builds a Frame from a record's fields in a single allocation, so
// ownership can transfer to the data channel without a further copy.
func Encode(
	level uint8,
	now time.Time,
	tid uint32,
	hasTid bool,
	rank uint16,
	file string,
	line int,
	fn string,
	loggerName string,
	message string,
) (*Frame, error) {
	if line < 0 {
		return nil, ewrap.New("negative source line").WithMetadata("line", line)
	}

	tail := headerSize + len(file) + len(fn) + len(loggerName) + len(message)
	buf := make([]byte, tail)

	buf[0] = level

	binary.LittleEndian.PutUint64(buf[1:9], uint64(now.UnixNano()))
	binary.LittleEndian.PutUint32(buf[9:13], tid)

	if hasTid {
		buf[13] = 1
	}

	binary.LittleEndian.PutUint16(buf[14:16], rank)
	//nolint:gosec // line numbers are bounded well under int32 range in practice.
	binary.LittleEndian.PutUint32(buf[16:20], uint32(int32(line)))
	binary.LittleEndian.PutUint16(buf[20:22], uint16(len(file)))
	binary.LittleEndian.PutUint16(buf[22:24], uint16(len(fn)))
	binary.LittleEndian.PutUint16(buf[24:26], uint16(len(loggerName)))
	binary.LittleEndian.PutUint32(buf[26:30], uint32(len(message)))

	offset := headerSize
	offset += copy(buf[offset:], file)
	offset += copy(buf[offset:], fn)
	offset += copy(buf[offset:], loggerName)
	copy(buf[offset:], message)

	return &Frame{Data: buf}, nil
}

// EncodeInto fills frame with one record's fields, reusing its backing
// array when large enough instead of allocating a new one — the path a
// pooled Frame from Pool.Get takes.
func EncodeInto(
	frame *Frame,
	level uint8,
	now time.Time,
	tid uint32,
	hasTid bool,
	rank uint16,
	file string,
	line int,
	fn string,
	loggerName string,
	message string,
) error {
	if line < 0 {
		return ewrap.New("negative source line").WithMetadata("line", line)
	}

	size := headerSize + len(file) + len(fn) + len(loggerName) + len(message)

	if cap(frame.Data) < size {
		frame.Data = make([]byte, size)
	} else {
		frame.Data = frame.Data[:size]
	}

	buf := frame.Data

	buf[0] = level

	binary.LittleEndian.PutUint64(buf[1:9], uint64(now.UnixNano()))
	binary.LittleEndian.PutUint32(buf[9:13], tid)

	buf[13] = 0
	if hasTid {
		buf[13] = 1
	}

	binary.LittleEndian.PutUint16(buf[14:16], rank)
	//nolint:gosec // line numbers are bounded well under int32 range in practice.
	binary.LittleEndian.PutUint32(buf[16:20], uint32(int32(line)))
	binary.LittleEndian.PutUint16(buf[20:22], uint16(len(file)))
	binary.LittleEndian.PutUint16(buf[22:24], uint16(len(fn)))
	binary.LittleEndian.PutUint16(buf[24:26], uint16(len(loggerName)))
	binary.LittleEndian.PutUint32(buf[26:30], uint32(len(message)))

	offset := headerSize
	offset += copy(buf[offset:], file)
	offset += copy(buf[offset:], fn)
	offset += copy(buf[offset:], loggerName)
	copy(buf[offset:], message)

	return nil
}

// Decode slices a frame's header and the four variable strings it
// describes. The returned strings are copies of the frame's tail bytes
// rather than aliases of it: Go gives no safe way to alias a []byte as a
// string without unsafe, and correctness here matters more than the extra
// allocation it costs.
func Decode(data []byte) (Header, string, string, string, string, error) {
	if len(data) < headerSize {
		return Header{}, "", "", "", "", ewrap.New("frame shorter than header").
			WithMetadata("len", len(data))
	}

	header := Header{
		Level:     data[0],
		Timestamp: time.Unix(0, int64(binary.LittleEndian.Uint64(data[1:9]))),
		Tid:       binary.LittleEndian.Uint32(data[9:13]),
		HasTid:    data[13] != 0,
		Rank:      binary.LittleEndian.Uint16(data[14:16]),
		Line:      int32(binary.LittleEndian.Uint32(data[16:20])),
		FileLen:   binary.LittleEndian.Uint16(data[20:22]),
		FuncLen:   binary.LittleEndian.Uint16(data[22:24]),
		LoggerLen: binary.LittleEndian.Uint16(data[24:26]),
		MsgLen:    binary.LittleEndian.Uint32(data[26:30]),
	}

	want := headerSize + int(header.FileLen) + int(header.FuncLen) + int(header.LoggerLen) + int(header.MsgLen)
	if len(data) < want {
		return Header{}, "", "", "", "", ewrap.New("frame shorter than header declares").
			WithMetadata("want", want).WithMetadata("have", len(data))
	}

	offset := headerSize
	file := string(data[offset : offset+int(header.FileLen)])
	offset += int(header.FileLen)
	fn := string(data[offset : offset+int(header.FuncLen)])
	offset += int(header.FuncLen)
	loggerName := string(data[offset : offset+int(header.LoggerLen)])
	offset += int(header.LoggerLen)
	message := string(data[offset : offset+int(header.MsgLen)])

	return header, file, fn, loggerName, message, nil
}

// SplitMessage splits a record's message on newlines so the caller can
// render one output line per segment, all sharing the same header fields.
func SplitMessage(message string) []string {
	return strings.Split(message, "\n")
}

// RenderLine produces exactly one output line in the fixed sink format:
//
//	L|YYYYMMDDTHHMMSS.NNNNNNNNN|PPPPP.TTTTT=RRRRR:PROG|FILE:LINE@FUNC|LOGGER|MESSAGE\n
//
// levelChar is the caller-supplied one-byte level prefix (corelog.Level.Char).
// When header.HasTid is false the PPPPP.TTTTT=RRRRR segment degrades to
// PPPPP:RRRRR, per the documented platform-dependent kernel-tid omission.
func RenderLine(header Header, levelChar byte, pid int, program, file, fn, loggerName, messageSegment string) []byte {
	var b strings.Builder

	b.Grow(len(messageSegment) + len(file) + len(fn) + len(loggerName) + len(program) + 64)

	b.WriteByte(levelChar)
	b.WriteByte('|')
	b.WriteString(header.Timestamp.Format("20060102T150405"))
	fmt.Fprintf(&b, ".%09d", header.Timestamp.Nanosecond())
	b.WriteByte('|')

	if header.HasTid {
		fmt.Fprintf(&b, "%05d.%05d=%05d", pid, header.Tid, header.Rank)
	} else {
		fmt.Fprintf(&b, "%05d:%05d", pid, header.Rank)
	}

	b.WriteByte(':')
	b.WriteString(program)
	b.WriteByte('|')
	b.WriteString(filepath.Base(file))
	b.WriteByte(':')
	fmt.Fprintf(&b, "%d", header.Line)
	b.WriteByte('@')
	b.WriteString(fn)
	b.WriteByte('|')
	b.WriteString(loggerName)
	b.WriteByte('|')
	b.WriteString(messageSegment)
	b.WriteByte('\n')

	return []byte(b.String())
}
