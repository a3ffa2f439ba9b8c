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

package validator

// Session tracks the error flags of a Validator for a nested piece of
// work.
//
// When the session starts, the current flags are saved and cleared.
// When it ends, the saved flags are merged back, so that problems found
// during the session become visible to the enclosing code.  To discard
// the problems found during a session, call ResetErrors before End.
type Session struct {
	v     *Validator
	depth int
	done  bool
}

// StartSession begins a new session.  Sessions must be ended in the
// reverse order in which they were started.
func (v *Validator) StartSession() *Session {
	v.saved = append(v.saved, flags{
		readError:          v.readError,
		hasUnavailableData: v.hasUnavailableData,
	})
	v.ResetErrors()
	tracer().Debugf("session %d started", len(v.saved))
	return &Session{v: v, depth: len(v.saved)}
}

// End ends the session.  Calling End more than once has no effect.
func (s *Session) End() {
	if s.done {
		return
	}
	v := s.v
	if len(v.saved) != s.depth {
		panic("validator: sessions ended out of order")
	}
	s.done = true
	v.endSession()
	tracer().Debugf("session %d ended", s.depth)
}

// endSession pops the innermost saved flags and merges them into the
// current flags.
func (v *Validator) endSession() {
	last := v.saved[len(v.saved)-1]
	v.saved = v.saved[:len(v.saved)-1]
	v.readError = v.readError || last.readError
	v.hasUnavailableData = v.hasUnavailableData || last.hasUnavailableData
}

// Run calls fn inside a new session.  The session is ended when fn
// returns, including when fn panics.  Sessions which fn started but did
// not end are ended first, and their problems are merged into the flags.
func (v *Validator) Run(fn func() error) error {
	s := v.StartSession()
	defer func() {
		for len(v.saved) > s.depth {
			tracer().Debugf("session %d not ended", len(v.saved))
			v.endSession()
		}
		s.End()
	}()
	return fn()
}
