// idxsh is an interactive shell for hashindex files.
//
// Usage:
//
//	idxsh <index-file>              Open an existing index file
//	idxsh new [opts] <index-file>   Create a new index file
//
// Options for 'new':
//
//	-k, --key-size      Key size in bytes (default: prompts)
//	-v, --value-size    Value size in bytes (default: prompts)
//	-n, --capacity      Expected entry count (default: prompts)
//
// Commands (in REPL):
//
//	put <key> <value>     Insert or update an entry
//	get <key>             Retrieve an entry by key
//	del <key>             Delete an entry
//	ls [limit]            List live entries in bucket order
//	len                   Count live entries
//	info                  Show index info
//	bulk <count>          Insert N random entries
//	seq <count> [start]   Insert N sequential entries
//	bench <count>         Benchmark put+get performance
//	verify                Run the structural integrity check
//	flush                 Write the index to disk now
//	help                  Show this help
//	exit / quit / q       Flush and exit
//
// Keys and values are hex; shorter input is zero-padded on the right.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/peterh/liner"

	"github.com/coldvault/hashindex/pkg/hashindex"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return errors.New("missing index file path")
	}

	if args[0] == "new" {
		return runNew(args[1:])
	}

	return runOpen(args)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: idxsh <index-file>\n")
	fmt.Fprintf(os.Stderr, "       idxsh new [opts] <index-file>\n")
}

func runNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	keySize := fs.Int("k", 0, "key size in bytes")
	fs.IntVar(keySize, "key-size", 0, "key size in bytes")
	valueSize := fs.Int("v", 0, "value size in bytes")
	fs.IntVar(valueSize, "value-size", 0, "value size in bytes")
	capacity := fs.Uint64("n", 0, "expected entry count")
	fs.Uint64Var(capacity, "capacity", 0, "expected entry count")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: idxsh new [opts] <index-file>\n\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("missing index file path")
	}

	path := fs.Arg(0)

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("index file already exists: %s (use 'idxsh %s' to open it)", path, path)
	}

	reader := bufio.NewReader(os.Stdin)

	if *keySize == 0 {
		*keySize = promptInt(reader, "Key size in bytes", 32)
	}

	if *valueSize == 0 {
		*valueSize = promptInt(reader, "Value size in bytes", 12)
	}

	if *capacity == 0 {
		*capacity = uint64(promptInt(reader, "Expected entry count", 1000))
	}

	idx, err := hashindex.New(hashindex.Options{
		Capacity:  *capacity,
		KeySize:   *keySize,
		ValueSize: *valueSize,
	})
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	fmt.Printf("\nCreating index with:\n")
	fmt.Printf("  Path:        %s\n", path)
	fmt.Printf("  Key size:    %d bytes\n", idx.KeySize())
	fmt.Printf("  Value size:  %d bytes\n", idx.ValueSize())
	fmt.Printf("  Buckets:     %d\n", idx.NumBuckets())
	fmt.Println()

	if err := hashindex.Write(idx, path); err != nil {
		idx.Free()
		return fmt.Errorf("writing index: %w", err)
	}

	repl := &REPL{idx: idx, path: path}

	return repl.Run()
}

func runOpen(args []string) error {
	path := args[0]

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("index file does not exist: %s (use 'idxsh new %s' to create it)", path, path)
	}

	idx, err := hashindex.Read(path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}

	repl := &REPL{idx: idx, path: path}

	return repl.Run()
}

// promptInt prompts the user for an integer value with a default.
func promptInt(reader *bufio.Reader, prompt string, defaultVal int) int {
	for {
		fmt.Printf("%s [%d]: ", prompt, defaultVal)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "" {
			return defaultVal
		}

		val, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println("Please enter a valid integer.")
			continue
		}

		return val
	}
}

// REPL is the interactive command loop.
type REPL struct {
	idx   *hashindex.Index
	path  string
	dirty bool
	liner *liner.State
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".idxsh_history")
}

// Run starts the REPL loop. On clean exit the index is flushed to disk.
func (r *REPL) Run() error {
	defer r.idx.Free()

	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("idxsh - hashindex shell (key_size=%d, value_size=%d, entries=%d)\n",
		r.idx.KeySize(), r.idx.ValueSize(), r.idx.Len())
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := r.liner.Prompt("idxsh> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println("\nBye!")
				r.saveHistory()

				return r.flushIfDirty()
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			r.saveHistory()

			return r.flushIfDirty()

		case "help", "?":
			r.printHelp()

		case "put":
			r.cmdPut(args)

		case "get":
			r.cmdGet(args)

		case "del", "delete":
			r.cmdDelete(args)

		case "ls", "scan", "list":
			r.cmdLs(args)

		case "len", "count":
			fmt.Printf("%d entries\n", r.idx.Len())

		case "info":
			r.cmdInfo()

		case "bulk":
			r.cmdBulk(args)

		case "seq":
			r.cmdSeq(args)

		case "bench":
			r.cmdBench(args)

		case "verify":
			r.cmdVerify()

		case "flush", "save":
			r.cmdFlush()

		case "clear", "cls":
			fmt.Print("\033[H\033[2J")

		default:
			fmt.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			r.liner.WriteHistory(f)
			f.Close()
		}
	}
}

// completer provides tab completion for commands.
func (r *REPL) completer(line string) []string {
	commands := []string{
		"put", "get", "del", "delete",
		"ls", "scan", "list", "len", "count",
		"info", "bulk", "seq", "bench",
		"verify", "flush", "save", "clear", "cls",
		"help", "exit", "quit", "q",
	}

	var completions []string

	lower := strings.ToLower(line)
	for _, cmd := range commands {
		if strings.HasPrefix(cmd, lower) {
			completions = append(completions, cmd)
		}
	}

	return completions
}

func (r *REPL) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  put <key> <value>     Insert or update an entry")
	fmt.Println("  get <key>             Retrieve an entry by key")
	fmt.Println("  del <key>             Delete an entry")
	fmt.Println("  ls [limit]            List live entries in bucket order")
	fmt.Println("  len                   Count live entries")
	fmt.Println("  info                  Show index info")
	fmt.Println("  bulk <count>          Insert N random entries")
	fmt.Println("  seq <count> [start]   Insert N sequential entries")
	fmt.Println("  bench <count>         Benchmark put+get performance")
	fmt.Println("  verify                Run the structural integrity check")
	fmt.Println("  flush                 Write the index to disk now")
	fmt.Println("  help                  Show this help")
	fmt.Println("  exit / quit / q       Flush and exit")
	fmt.Println()
	fmt.Println("Keys and values are hex (e.g. 'deadbeef'); shorter input is")
	fmt.Println("zero-padded on the right to the configured width.")
}

func (r *REPL) cmdPut(args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: put <key> <value>")
		return
	}

	key, err := parseHexPadded(args[0], r.idx.KeySize())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	value, err := parseHexPadded(args[1], r.idx.ValueSize())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := r.idx.Set(key, value); err != nil {
		fmt.Println("Error:", err)
		return
	}

	r.dirty = true

	fmt.Println("OK")
}

func (r *REPL) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: get <key>")
		return
	}

	key, err := parseHexPadded(args[0], r.idx.KeySize())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	value, found := r.idx.Get(key)
	if !found {
		fmt.Println("(not found)")
		return
	}

	fmt.Println(hex.EncodeToString(value))
}

func (r *REPL) cmdDelete(args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: del <key>")
		return
	}

	key, err := parseHexPadded(args[0], r.idx.KeySize())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	if err := r.idx.Delete(key); err != nil {
		fmt.Println("Error:", err)
		return
	}

	r.dirty = true

	fmt.Println("OK")
}

func (r *REPL) cmdLs(args []string) {
	limit := 0

	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			fmt.Println("Usage: ls [limit]")
			return
		}

		limit = n
	}

	printed := 0

	for it := r.idx.Iterate(); it.Next(); {
		if limit > 0 && printed >= limit {
			fmt.Printf("... (%d more)\n", r.idx.Len()-uint64(printed))
			break
		}

		fmt.Printf("%s  %s\n", hex.EncodeToString(it.Key()), hex.EncodeToString(it.Value()))

		printed++
	}

	if printed == 0 {
		fmt.Println("(empty)")
	}
}

func (r *REPL) cmdInfo() {
	fmt.Printf("path:        %s\n", r.path)
	fmt.Printf("key_size:    %d\n", r.idx.KeySize())
	fmt.Printf("value_size:  %d\n", r.idx.ValueSize())
	fmt.Printf("entries:     %s\n", humanize.Comma(int64(r.idx.Len())))
	fmt.Printf("buckets:     %s\n", humanize.Comma(int64(r.idx.NumBuckets())))
	fmt.Printf("file size:   %s\n", humanize.IBytes(r.idx.ByteSize()))
	fmt.Printf("dirty:       %v\n", r.dirty)
}

func (r *REPL) cmdBulk(args []string) {
	count, ok := parseCount(args, "Usage: bulk <count>")
	if !ok {
		return
	}

	key := make([]byte, r.idx.KeySize())
	value := make([]byte, r.idx.ValueSize())

	start := time.Now()

	for i := 0; i < count; i++ {
		if _, err := rand.Read(key); err != nil {
			fmt.Println("Error:", err)
			return
		}

		if _, err := rand.Read(value); err != nil {
			fmt.Println("Error:", err)
			return
		}

		// A random value can collide with a reserved sentinel in its
		// first four bytes; zero one byte to step off it.
		if err := r.idx.Set(key, value); err != nil {
			value[0] = 0

			if err := r.idx.Set(key, value); err != nil {
				fmt.Println("Error:", err)
				return
			}
		}
	}

	r.dirty = true

	fmt.Printf("Inserted %d random entries in %v\n", count, time.Since(start).Round(time.Millisecond))
}

func (r *REPL) cmdSeq(args []string) {
	count, ok := parseCount(args, "Usage: seq <count> [start]")
	if !ok {
		return
	}

	start := 0

	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			fmt.Println("Usage: seq <count> [start]")
			return
		}

		start = n
	}

	key := make([]byte, r.idx.KeySize())
	value := make([]byte, r.idx.ValueSize())

	began := time.Now()

	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(start+i))
		binary.LittleEndian.PutUint32(value[:4], uint32(start+i+1))

		if err := r.idx.Set(key, value); err != nil {
			fmt.Println("Error:", err)
			return
		}
	}

	r.dirty = true

	fmt.Printf("Inserted %d sequential entries in %v\n", count, time.Since(began).Round(time.Millisecond))
}

func (r *REPL) cmdBench(args []string) {
	count, ok := parseCount(args, "Usage: bench <count>")
	if !ok {
		return
	}

	key := make([]byte, r.idx.KeySize())
	value := make([]byte, r.idx.ValueSize())

	putStart := time.Now()

	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(i))

		if len(key) >= 8 {
			binary.LittleEndian.PutUint32(key[4:8], 0x62656e63) // keep bench keys apart from seq keys
		}

		binary.LittleEndian.PutUint32(value[:4], uint32(i+1))

		if err := r.idx.Set(key, value); err != nil {
			fmt.Println("Error:", err)
			return
		}
	}

	putDur := time.Since(putStart)
	getStart := time.Now()
	misses := 0

	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(key[:4], uint32(i))

		if _, found := r.idx.Get(key); !found {
			misses++
		}
	}

	getDur := time.Since(getStart)

	r.dirty = true

	fmt.Printf("put: %d ops in %v (%.0f ops/s)\n", count, putDur.Round(time.Millisecond),
		float64(count)/putDur.Seconds())
	fmt.Printf("get: %d ops in %v (%.0f ops/s, %d misses)\n", count, getDur.Round(time.Millisecond),
		float64(count)/getDur.Seconds(), misses)
}

func (r *REPL) cmdVerify() {
	if err := r.idx.Check(); err != nil {
		fmt.Println("FAIL:", err)
		return
	}

	fmt.Printf("ok (%s entries in %s buckets)\n",
		humanize.Comma(int64(r.idx.Len())), humanize.Comma(int64(r.idx.NumBuckets())))
}

func (r *REPL) cmdFlush() {
	if err := hashindex.Write(r.idx, r.path); err != nil {
		fmt.Println("Error:", err)
		return
	}

	r.dirty = false

	fmt.Printf("wrote %s (%s)\n", r.path, humanize.IBytes(r.idx.ByteSize()))
}

func (r *REPL) flushIfDirty() error {
	if !r.dirty {
		return nil
	}

	if err := hashindex.Write(r.idx, r.path); err != nil {
		return fmt.Errorf("flushing index: %w", err)
	}

	return nil
}

// parseCount parses the leading count argument shared by bulk/seq/bench.
func parseCount(args []string, usage string) (int, bool) {
	if len(args) < 1 {
		fmt.Println(usage)
		return 0, false
	}

	count, err := strconv.Atoi(args[0])
	if err != nil || count <= 0 {
		fmt.Println(usage)
		return 0, false
	}

	return count, true
}

// parseHexPadded decodes hex into exactly width bytes, zero-padding
// shorter input on the right.
func parseHexPadded(arg string, width int) ([]byte, error) {
	raw, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid hex %q: %w", arg, err)
	}

	if len(raw) > width {
		return nil, fmt.Errorf("%q is %d bytes, limit is %d", arg, len(raw), width)
	}

	out := make([]byte, width)
	copy(out, raw)

	return out, nil
}
