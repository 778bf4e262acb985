// Completion: 100% - Mirror ELF writer complete
package main

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
)

// elfHeaderSize and elfProgramHeaderSize are the fixed ELF64 structure
// sizes this writer lays code out after, per the System V ABI.
const (
	elfHeaderSize        = 64
	elfProgramHeaderSize = 56
	numProgramHeaders    = 1
)

// WriteELF emits a minimal ET_EXEC x86-64 ELF binary whose single PT_LOAD
// segment contains every function's instruction bytes, concatenated in
// FunctionOrder starting at baseAddr. This is the "mirror" path
// (`generateMirrorELF` in the original): it does not reproduce a full
// dynamic-linked PIE layout (dynamic section, relocations, section
// headers - it writes none). Each 5-byte control-flow instruction that
// carries a RIP-relative Link gets its rel32 displacement written from the
// assigned addresses. It reproduces enough of an ELF to carry the hardened code back out for
// inspection or re-assembly by a true linker, per the teacher's own
// codegen_elf_writer.go which likewise hand-assembles the file byte range
// by byte range rather than going through a library - there is no
// ELF-writing library anywhere in this module's dependency pack, so this
// is written directly against the format the way every example repo's own
// ELF writer is.
func WriteELF(w io.Writer, p *Program, baseAddr uint64, symbols []*DynamicSymbol) error {
	var code bytes.Buffer
	for _, fn := range p.Functions() {
		for _, b := range fn.Blocks {
			for _, instr := range b.Instructions {
				out := instr.Bytes
				if instr.Semantic.IsControlFlowWithLink() && len(out) == nearJumpSize {
					if disp, ok := calculateDisplacement(p, instr, instr.Semantic.Link); ok {
						out = append([]byte(nil), out...)
						binary.LittleEndian.PutUint32(out[1:], uint32(int32(disp)))
					}
				}
				code.Write(out)
			}
		}
	}

	entry := baseAddr
	if len(p.FunctionOrder) > 0 {
		if fn, ok := p.FunctionByID(p.FunctionOrder[0]); ok && fn.addressValid {
			entry = fn.Address
		}
	}

	fileOffset := uint64(elfHeaderSize + numProgramHeaders*elfProgramHeaderSize)
	vaddr := baseAddr
	filesz := uint64(code.Len())

	var buf bytes.Buffer
	writeELFHeader(&buf, entry, fileOffset)
	writeProgramHeader(&buf, fileOffset, vaddr, filesz)
	buf.Write(code.Bytes())

	_ = symbols // reserved for a future .plt/.got.plt section; see DESIGN.md
	_, err := w.Write(buf.Bytes())
	return err
}

func writeELFHeader(buf *bytes.Buffer, entry, phoff uint64) {
	var ident [16]byte
	ident[0] = 0x7f
	ident[1] = 'E'
	ident[2] = 'L'
	ident[3] = 'F'
	ident[4] = 2 // ELFCLASS64
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT
	buf.Write(ident[:])

	binary.Write(buf, binary.LittleEndian, uint16(elf.ET_EXEC))
	binary.Write(buf, binary.LittleEndian, uint16(elf.EM_X86_64))
	binary.Write(buf, binary.LittleEndian, uint32(elf.EV_CURRENT))
	binary.Write(buf, binary.LittleEndian, entry)
	binary.Write(buf, binary.LittleEndian, phoff)
	binary.Write(buf, binary.LittleEndian, uint64(0)) // e_shoff: no section headers
	binary.Write(buf, binary.LittleEndian, uint32(0)) // e_flags
	binary.Write(buf, binary.LittleEndian, uint16(elfHeaderSize))
	binary.Write(buf, binary.LittleEndian, uint16(elfProgramHeaderSize))
	binary.Write(buf, binary.LittleEndian, uint16(numProgramHeaders))
	binary.Write(buf, binary.LittleEndian, uint16(0)) // e_shentsize
	binary.Write(buf, binary.LittleEndian, uint16(0)) // e_shnum
	binary.Write(buf, binary.LittleEndian, uint16(0)) // e_shstrndx
}

func writeProgramHeader(buf *bytes.Buffer, offset, vaddr, filesz uint64) {
	binary.Write(buf, binary.LittleEndian, uint32(elf.PT_LOAD))
	binary.Write(buf, binary.LittleEndian, uint32(elf.PF_R|elf.PF_X))
	binary.Write(buf, binary.LittleEndian, offset)
	binary.Write(buf, binary.LittleEndian, vaddr)
	binary.Write(buf, binary.LittleEndian, vaddr) // p_paddr
	binary.Write(buf, binary.LittleEndian, filesz)
	binary.Write(buf, binary.LittleEndian, filesz) // p_memsz
	binary.Write(buf, binary.LittleEndian, uint64(DefaultTarget.PageSize))
}

// CalculateLayout estimates the final file size a WriteELF call for this
// program would produce, without actually writing it - the teacher's
// ELFWriter.CalculateLayout. A program with no code bytes is an error.
func CalculateLayout(p *Program) (fileSize uint64, err error) {
	total := uint64(elfHeaderSize + numProgramHeaders*elfProgramHeaderSize)
	codeSize := uint64(0)
	for _, fn := range p.Functions() {
		codeSize += uint64(fn.Size())
	}
	if codeSize == 0 {
		return 0, fmt.Errorf("empty program")
	}
	return total + codeSize, nil
}
