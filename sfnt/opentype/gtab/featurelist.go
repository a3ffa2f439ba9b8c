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

import "fmt"

// FeatureRecord describes an OpenType feature.
type FeatureRecord struct {
	// Tag describes the function of this feature.
	// https://docs.microsoft.com/en-us/typography/opentype/spec/featuretags
	Tag Tag

	// LookupListIndices lists the lookups used by this feature,
	// as indices into the lookup list.
	LookupListIndices []uint16
}

func (f FeatureRecord) String() string {
	return fmt.Sprintf("%s:%v", f.Tag, f.LookupListIndices)
}

// https://docs.microsoft.com/en-us/typography/opentype/spec/chapter2#feature-list-table
func (d *decoder) readFeatureList(pos int) []FeatureRecord {
	if !d.seek(pos) {
		return nil
	}
	featureCount, err := d.c.ReadUint16()
	if err != nil {
		d.fail(err)
		return nil
	}

	type featureEntry struct {
		tag  Tag
		offs uint16
	}
	entries := make([]featureEntry, 0, min(int(featureCount), d.c.Remaining()/6))
	for i := 0; i < int(featureCount); i++ {
		buf, err := d.c.ReadBytes(6)
		if err != nil {
			d.fail(err)
			break
		}
		entries = append(entries, featureEntry{
			tag:  Tag(buf[0])<<24 | Tag(buf[1])<<16 | Tag(buf[2])<<8 | Tag(buf[3]),
			offs: uint16(buf[4])<<8 | uint16(buf[5]),
		})
	}

	features := make([]FeatureRecord, len(entries))
	for i, entry := range entries {
		features[i].Tag = entry.tag
		// skip featureParamsOffset
		if !d.seek(pos + int(entry.offs) + 2) {
			features[i].LookupListIndices = []uint16{}
			continue
		}
		indices, err := d.c.ReadUint16Slice()
		if err != nil {
			d.fail(err)
		}
		features[i].LookupListIndices = indices
	}
	return features
}
