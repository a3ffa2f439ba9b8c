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

package gtab

// ScriptRecord describes the language systems of one script.
//
// Each element of LangSys lists the feature indices used by one language
// system, as indices into the feature list.  The default language system
// of the script is not included.
type ScriptRecord struct {
	LangSys [][]uint16
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#script-list-table-and-script-record
func (d *decoder) readScriptList(pos int) []ScriptRecord {
	offsets := d.readRecordOffsets(pos, 4)

	scripts := make([]ScriptRecord, len(offsets))
	for i, offs := range offsets {
		scripts[i] = d.readScript(pos + int(offs))
	}
	return scripts
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#script-table-and-language-system-record
func (d *decoder) readScript(pos int) ScriptRecord {
	// skip defaultLangSysOffset
	offsets := d.readRecordOffsets(pos+2, 4)

	res := ScriptRecord{
		LangSys: make([][]uint16, len(offsets)),
	}
	for i, offs := range offsets {
		res.LangSys[i] = d.readLangSys(pos + int(offs))
	}
	return res
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#language-system-table
func (d *decoder) readLangSys(pos int) []uint16 {
	// skip lookupOrderOffset and requiredFeatureIndex
	if !d.seek(pos + 4) {
		return []uint16{}
	}
	indices, err := d.c.ReadUint16Slice()
	if err != nil {
		d.fail(err)
	}
	return indices
}
