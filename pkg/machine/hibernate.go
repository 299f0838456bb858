package machine

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// machineState is the JSON-serializable snapshot of the machine's
// control state. The tape travels as a separate raw entry.
type machineState struct {
	IP     int  `json:"ip"`
	DP     int  `json:"dp"`
	Strict bool `json:"strict"`
}

// programEntry is the JSON form of one instruction. The opcode is
// stored as its source glyph so archives stay human-readable.
type programEntry struct {
	Op   string `json:"op"`
	Jump int    `json:"jump,omitempty"`
	Line int    `json:"line"`
}

// HibernateToBytes serialises the machine state and loaded program into
// an in-memory ZIP archive and returns the raw bytes. The machine may
// be mid-run; restoring resumes from the same instruction.
func (m *Machine) HibernateToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	state := machineState{
		IP:     m.IP,
		DP:     m.DP,
		Strict: m.Strict,
	}
	jsonData, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal machine_state: %w", err)
	}
	if err := writeZipEntry(zw, "machine_state.json", jsonData); err != nil {
		return nil, err
	}

	if err := writeZipEntry(zw, "tape.bin", m.Tape[:]); err != nil {
		return nil, err
	}

	entries := make([]programEntry, len(m.Program))
	for i, inst := range m.Program {
		entries[i] = programEntry{
			Op:   inst.Op.String(),
			Jump: inst.Jump,
			Line: inst.Line,
		}
	}
	progData, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal program: %w", err)
	}
	if err := writeZipEntry(zw, "program.json", progData); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// RestoreFromBytes deserialises an archive produced by HibernateToBytes
// and applies the saved state, program included, to the machine.
func (m *Machine) RestoreFromBytes(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}

	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, "machine_state.json")
	if err != nil {
		return err
	}
	var state machineState
	if err := json.Unmarshal(jsonData, &state); err != nil {
		return fmt.Errorf("unmarshal machine_state: %w", err)
	}

	progData, err := readZipEntry(fileMap, "program.json")
	if err != nil {
		return err
	}
	var entries []programEntry
	if err := json.Unmarshal(progData, &entries); err != nil {
		return fmt.Errorf("unmarshal program: %w", err)
	}
	prog := make(Program, len(entries))
	for i, e := range entries {
		if len(e.Op) != 1 {
			return fmt.Errorf("program entry %d: invalid opcode %q", i, e.Op)
		}
		op, ok := OpcodeForGlyph(e.Op[0])
		if !ok {
			return fmt.Errorf("program entry %d: invalid opcode %q", i, e.Op)
		}
		prog[i] = Instruction{Op: op, Jump: e.Jump, Line: e.Line}
	}

	if state.IP < 0 || state.IP > len(prog) {
		return fmt.Errorf("instruction pointer %d out of range", state.IP)
	}
	if state.DP < 0 || state.DP >= TapeSize {
		return fmt.Errorf("data pointer %d out of range", state.DP)
	}

	m.Tape = [TapeSize]byte{}
	if tapeData, err := readZipEntry(fileMap, "tape.bin"); err == nil {
		copy(m.Tape[:], tapeData)
	}

	m.Program = prog
	m.IP = state.IP
	m.DP = state.DP
	m.Strict = state.Strict
	return nil
}

// HibernateToFile writes the hibernation archive to the given file path.
func (m *Machine) HibernateToFile(path string) error {
	data, err := m.HibernateToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// RestoreFromFile reads a hibernation archive from the given file path
// and restores the machine state.
func (m *Machine) RestoreFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return m.RestoreFromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
