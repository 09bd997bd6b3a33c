package internal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

type VectorFormat string

const (
	FormatAuto   VectorFormat = "auto"
	FormatText   VectorFormat = "text"
	FormatBinary VectorFormat = "binary"
)

const maxVectorLine = 16 * 1024 * 1024

// DetectFormat resolves FormatAuto from the file name: ".bin" (optionally
// gzipped) is binary, anything else is text.
func DetectFormat(path string, format VectorFormat) VectorFormat {
	if format != "" && format != FormatAuto {
		return format
	}
	name := strings.TrimSuffix(path, ".gz")
	if filepath.Ext(name) == ".bin" {
		return FormatBinary
	}
	return FormatText
}

// LoadWordVectors reads a word2vec model file in text or binary layout.
func LoadWordVectors(path string, format VectorFormat) (*WordVectors, error) {
	rc, err := openInput(path)
	if err != nil {
		return nil, fmt.Errorf("open word vectors: %w", err)
	}
	defer rc.Close()

	var wv *WordVectors
	switch DetectFormat(path, format) {
	case FormatBinary:
		wv, err = ReadBinaryVectors(rc)
	case FormatText:
		wv, err = ReadTextVectors(rc)
	default:
		return nil, fmt.Errorf("unknown vector format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if wv.Len() == 0 {
		return nil, ErrEmptyVocabulary
	}
	return wv, nil
}

// ReadTextVectors parses "word f1 ... fD" lines. A leading "N D" header line
// is optional.
func ReadTextVectors(r io.Reader) (*WordVectors, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxVectorLine)

	var wv *WordVectors
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		if wv == nil {
			if dim, ok := parseHeader(fields); ok {
				wv = NewWordVectors(dim)
				continue
			}
			wv = NewWordVectors(len(fields) - 1)
		}

		if len(fields)-1 != wv.Dim {
			return nil, fmt.Errorf("line %d: dimension mismatch: expected %d, got %d", lineNo, wv.Dim, len(fields)-1)
		}

		vec := make([]float32, wv.Dim)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			vec[i] = float32(v)
		}
		if err := wv.Add(fields[0], vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if wv == nil {
		return NewWordVectors(0), nil
	}
	return wv, nil
}

func parseHeader(fields []string) (int, bool) {
	if len(fields) != 2 {
		return 0, false
	}
	if _, err := strconv.Atoi(fields[0]); err != nil {
		return 0, false
	}
	dim, err := strconv.Atoi(fields[1])
	if err != nil || dim <= 0 {
		return 0, false
	}
	return dim, true
}

// ReadBinaryVectors parses the word2vec binary layout: an "N D" header line,
// then per word the token, a space and D little-endian float32 values.
func ReadBinaryVectors(r io.Reader) (*WordVectors, error) {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	fields := strings.Fields(header)
	count, err := parseBinaryCount(fields)
	if err != nil {
		return nil, err
	}
	dim, _ := parseHeader(fields)

	wv := NewWordVectors(dim)
	raw := make([]byte, 4*dim)
	for i := 0; i < count; i++ {
		word, err := readBinaryWord(br)
		if err != nil {
			return nil, fmt.Errorf("word %d: %w", i, err)
		}

		if _, err := io.ReadFull(br, raw); err != nil {
			return nil, fmt.Errorf("vector for %q: %w", word, err)
		}
		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*j:]))
		}
		if err := wv.Add(word, vec); err != nil {
			return nil, err
		}
	}

	return wv, nil
}

func parseBinaryCount(fields []string) (int, error) {
	if _, ok := parseHeader(fields); !ok {
		return 0, fmt.Errorf("invalid header %q", strings.Join(fields, " "))
	}
	count, _ := strconv.Atoi(fields[0])
	return count, nil
}

func readBinaryWord(br *bufio.Reader) (string, error) {
	var sb strings.Builder
	for {
		b, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}
		if b == ' ' {
			break
		}
		if b == '\n' && sb.Len() == 0 {
			continue
		}
		sb.WriteByte(b)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty word")
	}
	return sb.String(), nil
}

// WriteTextVectors writes wv in the text layout, header included.
func WriteTextVectors(w io.Writer, wv *WordVectors) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", wv.Len(), wv.Dim); err != nil {
		return err
	}
	for i, word := range wv.Words {
		var sb strings.Builder
		sb.WriteString(word)
		for _, v := range wv.Vectors[i] {
			sb.WriteByte(' ')
			sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteBinaryVectors writes wv in the binary layout.
func WriteBinaryVectors(w io.Writer, wv *WordVectors) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", wv.Len(), wv.Dim); err != nil {
		return err
	}
	for i, word := range wv.Words {
		if _, err := fmt.Fprintf(w, "%s ", word); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, wv.Vectors[i]); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
