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

import (
	"reflect"

	"golang.org/x/exp/maps"
)

// Clone returns a deep copy of obj.
//
// Containers which are reachable from themselves are copied only once
// along every path: an array or dictionary which is already being copied
// further up the tree is omitted from the copy.  This guarantees that
// Clone terminates on cyclic object graphs.  References are copied as
// references; the objects they point to are not cloned.
func Clone(obj Object) Object {
	if obj == nil {
		return nil
	}
	return obj.clone(make(map[uintptr]bool))
}

// identity returns a key which identifies the storage used by a container
// object.  The Go garbage collector does not move heap objects, so the key
// is stable for as long as the container is reachable.  Scalars have no
// identity and the function returns 0 for them.
func identity(obj Object) uintptr {
	switch obj := obj.(type) {
	case Dict:
		if obj == nil {
			return 0
		}
		return reflect.ValueOf(obj).Pointer()
	case Array:
		if len(obj) == 0 {
			return 0
		}
		return reflect.ValueOf(obj).Pointer()
	case *Stream:
		return reflect.ValueOf(obj).Pointer()
	}
	return 0
}

// cloneChild clones a child object of a container.  Each child is given
// its own copy of the visited set, so that siblings which share an object
// are both copied.  The second return value is false if the child was
// already visited and must be omitted.
func cloneChild(child Object, visited map[uintptr]bool) (Object, bool) {
	if child == nil {
		return nil, true
	}
	if id := identity(child); id != 0 && visited[id] {
		return nil, false
	}
	return child.clone(maps.Clone(visited)), true
}

func (x Array) clone(visited map[uintptr]bool) Object {
	if x == nil {
		return x
	}
	if id := identity(x); id != 0 {
		visited[id] = true
	}
	res := make(Array, 0, len(x))
	for _, val := range x {
		c, ok := cloneChild(val, visited)
		if !ok {
			continue
		}
		res = append(res, c)
	}
	return res
}

func (x Dict) clone(visited map[uintptr]bool) Object {
	if x == nil {
		return x
	}
	visited[identity(x)] = true
	res := make(Dict, len(x))
	for key, val := range x {
		c, ok := cloneChild(val, visited)
		if !ok || c == nil {
			continue
		}
		res[key] = c
	}
	return res
}
