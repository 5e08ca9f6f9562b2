/*
 * Copyright 2019 The Yorkie Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package crdt

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// TextValue is a value of Text, holding the run's content plus an RHT of
// its style attributes. String indexing throughout Text is in UTF-16
// code units (§9b), matching the NSString-backed source SDK so that
// mixing code-point indexing across replicas cannot break convergence.
type TextValue struct {
	value string
	attrs *RHT
}

// NewTextValue creates a new instance of TextValue.
func NewTextValue(value string, attrs *RHT) *TextValue {
	return &TextValue{value: value, attrs: attrs}
}

// Attrs returns the attributes of this value.
func (t *TextValue) Attrs() *RHT {
	return t.attrs
}

// Value returns the plain string content of this value.
func (t *TextValue) Value() string {
	return t.value
}

// Length returns the length of this value in UTF-16 code units.
func (t *TextValue) Length() int {
	return len(utf16.Encode([]rune(t.value)))
}

// String returns the plain string representation of this value.
func (t *TextValue) String() string {
	return t.value
}

// Marshal returns the JSON encoding of this value, including attrs when
// present.
func (t *TextValue) Marshal() string {
	if len(t.attrs.Elements()) == 0 {
		return fmt.Sprintf(`{"val":%s}`, escapeString(t.value))
	}

	return fmt.Sprintf(`{"attrs":%s,"val":%s}`, t.attrs.Marshal(), escapeString(t.value))
}

// Split splits this value at the given UTF-16 offset, mutating the
// receiver to keep the left half and returning a new value for the
// right half. The new half inherits a deep copy of the style attrs.
func (t *TextValue) Split(offset int) RGATreeSplitValue {
	encoded := utf16.Encode([]rune(t.value))
	left := string(utf16.Decode(encoded[0:offset]))
	right := string(utf16.Decode(encoded[offset:]))
	t.value = left

	return NewTextValue(right, t.attrs.DeepCopy())
}

// DeepCopy copies itself deeply.
func (t *TextValue) DeepCopy() RGATreeSplitValue {
	return &TextValue{value: t.value, attrs: t.attrs.DeepCopy()}
}

func escapeString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
