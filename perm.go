// seehuhn.de/go/pdfcore - PDF object, stream and font table support
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package pdf

// Perm describes which operations are permitted when accessing the document
// with User access (but not Owner access).  The user can always view the
// document.
//
// This library just records the permissions in the PDF file.
// It is up to the reader to enforce the permissions.
type Perm int

const (
	// PermCopy allows to extract text and graphics.
	PermCopy Perm = 1 << iota

	// PermPrintDegraded allows printing of a low-level representation of the
	// appearance, possibly of degraded quality.
	PermPrintDegraded

	// PermPrint allows printing a representation from which a faithful digital
	// copy of the PDF content could be generated.  This implies
	// PermPrintDegraded.
	PermPrint

	// PermForms allows to fill in form fields, including signature fields.
	PermForms

	// PermAnnotate allows to add or modify text annotations. This implies
	// PermForms.
	PermAnnotate

	// PermAssemble allows to insert, rotate, or delete pages and to create
	// bookmarks or thumbnail images.
	PermAssemble

	// PermModify allows to modify the document.  This implies PermAssemble.
	PermModify

	permNext

	// PermAll gives the user all permissions, making User access equivalent to
	// Owner access.
	PermAll = permNext - 1
)

// canR2 checks whether the permissions can be represented by revision 2 of
// the standard security handler.
func (perm Perm) canR2() bool {
	if perm&PermPrint == 0 && perm&PermPrintDegraded != 0 {
		return false
	}
	if perm&PermAnnotate == 0 && perm&PermForms != 0 {
		return false
	}
	if perm&PermModify == 0 && perm&PermAssemble != 0 {
		return false
	}
	return true
}

// bit returns the mask for bit position i of the P entry, counting from 1.
func bit(i int) uint32 {
	return 1 << (i - 1)
}

func stdSecPToPerm(R int, P uint32) Perm {
	perm := PermAll
	if R == 2 {
		if P&bit(3) == 0 {
			perm &= ^(PermPrint | PermPrintDegraded)
		}
	} else {
		// bit 3 | 12
		//     0 | 0 -> neither full nor degraded printing
		//     0 | 1 -> full printing
		//     1 | 0 -> only degraded printing
		//     1 | 1 -> full printing
		switch {
		case P&bit(3) == 0 && P&bit(12) == 0:
			perm &= ^(PermPrint | PermPrintDegraded)
		case P&bit(3) != 0 && P&bit(12) == 0:
			perm &= ^PermPrint
		}
	}

	// Bit 4 controls modification, bit 11 assembly.  Modification
	// implies assembly.
	if P&bit(4) == 0 {
		perm &= ^PermModify
		if R == 2 || P&bit(11) == 0 {
			perm &= ^PermAssemble
		}
	}

	if P&bit(5) == 0 {
		perm &= ^PermCopy
	}

	// Bit 6 controls annotations, bit 9 forms.  Annotations imply forms.
	if P&bit(6) == 0 {
		perm &= ^PermAnnotate
		if R == 2 || P&bit(9) == 0 {
			perm &= ^PermForms
		}
	}

	return perm
}

func stdSecPermToP(perm Perm) uint32 {
	forbidden := uint32(3)
	if perm&PermCopy == 0 {
		forbidden |= bit(5)
	}
	if perm&PermPrint == 0 {
		forbidden |= bit(12)
		if perm&PermPrintDegraded == 0 {
			forbidden |= bit(3)
		}
	}
	if perm&PermAnnotate == 0 {
		forbidden |= bit(6)
		if perm&PermForms == 0 {
			forbidden |= bit(9)
		}
	}
	if perm&PermAssemble == 0 {
		forbidden |= bit(11)
	}
	if perm&PermModify == 0 {
		forbidden |= bit(4)
	}
	return ^forbidden
}
