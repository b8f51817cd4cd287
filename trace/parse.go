package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// OpKind is the operation code of a trace line.
type OpKind byte

// Operation codes.
const (
	OpAlloc   OpKind = 'a'
	OpRealloc OpKind = 'r'
	OpFree    OpKind = 'f'
)

func (k OpKind) String() string {
	switch k {
	case OpAlloc:
		return "alloc"
	case OpRealloc:
		return "realloc"
	case OpFree:
		return "free"
	}
	return fmt.Sprintf("OpKind(%q)", byte(k))
}

// Op is a single trace operation.
type Op struct {
	Kind OpKind
	ID   int
	Size uint32 // unused for OpFree
	Line int    // 1-based source line
}

func (op Op) String() string {
	if op.Kind == OpFree {
		return fmt.Sprintf("line %d: f %d", op.Line, op.ID)
	}
	return fmt.Sprintf("line %d: %c %d %d", op.Line, op.Kind, op.ID, op.Size)
}

// Trace is a parsed trace file.
type Trace struct {
	Name          string
	SuggestedHeap int
	NumIDs        int
	NumOps        int
	Weight        int
	Ops           []Op
}

// headerFields is the number of integers before the first operation.
const headerFields = 4

// ParseFile parses the trace at path. The trace is named after the file.
func ParseFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tr.Name = filepath.Base(path)
	return tr, nil
}

// Parse reads a trace. The header integers may share lines; operations are
// one per line. Ids must be below the declared id count and the number of
// operations must match the declared count.
func Parse(r io.Reader) (*Trace, error) {
	var (
		header []int
		tr     Trace
		line   int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		if len(header) < headerFields {
			for _, f := range fields {
				if len(header) == headerFields {
					return nil, syntaxErr(line, "operation on a header line")
				}
				n, err := strconv.Atoi(f)
				if err != nil || n < 0 {
					return nil, syntaxErr(line, "bad header value %q", f)
				}
				header = append(header, n)
			}
			if len(header) == headerFields {
				tr.SuggestedHeap, tr.NumIDs, tr.NumOps, tr.Weight = header[0], header[1], header[2], header[3]
				tr.Ops = make([]Op, 0, min(tr.NumOps, 1<<20))
			}
			continue
		}

		op, err := parseOp(fields, line, tr.NumIDs)
		if err != nil {
			return nil, err
		}
		tr.Ops = append(tr.Ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(header) < headerFields {
		return nil, syntaxErr(line, "truncated header: %d of %d values", len(header), headerFields)
	}
	if len(tr.Ops) != tr.NumOps {
		return nil, syntaxErr(line, "header declares %d operations, found %d", tr.NumOps, len(tr.Ops))
	}
	return &tr, nil
}

func parseOp(fields []string, line, numIDs int) (Op, error) {
	if len(fields[0]) != 1 {
		return Op{}, syntaxErr(line, "unknown operation %q", fields[0])
	}
	op := Op{Kind: OpKind(fields[0][0]), Line: line}

	want := 3
	switch op.Kind {
	case OpAlloc, OpRealloc:
	case OpFree:
		want = 2
	default:
		return Op{}, syntaxErr(line, "unknown operation %q", fields[0])
	}
	if len(fields) != want {
		return Op{}, syntaxErr(line, "%s takes %d arguments, got %d", op.Kind, want-1, len(fields)-1)
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil || id < 0 || id >= numIDs {
		return Op{}, syntaxErr(line, "bad block id %q (trace declares %d)", fields[1], numIDs)
	}
	op.ID = id

	if want == 3 {
		size, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return Op{}, syntaxErr(line, "bad size %q", fields[2])
		}
		op.Size = uint32(size)
	}
	return op, nil
}

func syntaxErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}
