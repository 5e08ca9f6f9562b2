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
	"encoding/base64"
	"fmt"
	"strconv"
	gotime "time"

	gtime "github.com/yorkie-team/yorkie/pkg/document/time"
)

// ValueType represents the type of Primitive value.
type ValueType int

const (
	// Null represents JSON null.
	Null ValueType = iota
	// Boolean represents JSON boolean.
	Boolean
	// Integer represents JSON number as int32.
	Integer
	// Long represents JSON number as int64.
	Long
	// Double represents JSON number as double.
	Double
	// String represents JSON string.
	String
	// Bytes represents a byte array, not part of pure JSON but needed
	// for binary payloads embedded in the document.
	Bytes
	// Date represents a point in time.
	Date
)

// Primitive represents a primitive value of the document in the CRDT
// perspective. Its value never changes after creation.
type Primitive struct {
	valueType ValueType
	value     interface{}
	createdAt *gtime.Ticket
	movedAt   *gtime.Ticket
	removedAt *gtime.Ticket
}

// NewPrimitive creates a new instance of Primitive.
func NewPrimitive(value interface{}, createdAt *gtime.Ticket) *Primitive {
	valueType, convertedValue := toValueType(value)
	return &Primitive{
		valueType: valueType,
		value:     convertedValue,
		createdAt: createdAt,
	}
}

func toValueType(value interface{}) (ValueType, interface{}) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case bool:
		return Boolean, v
	case int32:
		return Integer, v
	case int:
		return Integer, int32(v)
	case int64:
		return Long, v
	case float64:
		return Double, v
	case string:
		return String, v
	case []byte:
		return Bytes, v
	case gotime.Time:
		return Date, v
	default:
		panic(fmt.Sprintf("unsupported primitive value type: %T", value))
	}
}

// ValueType returns the type of the value.
func (p *Primitive) ValueType() ValueType {
	return p.valueType
}

// Value returns the raw value of this Primitive.
func (p *Primitive) Value() interface{} {
	return p.value
}

// Marshal returns the JSON encoding of this Primitive.
func (p *Primitive) Marshal() string {
	switch p.valueType {
	case Null:
		return "null"
	case Boolean:
		return strconv.FormatBool(p.value.(bool))
	case Integer:
		return strconv.FormatInt(int64(p.value.(int32)), 10)
	case Long:
		return strconv.FormatInt(p.value.(int64), 10)
	case Double:
		return strconv.FormatFloat(p.value.(float64), 'f', -1, 64)
	case String:
		return fmt.Sprintf("%q", p.value.(string))
	case Bytes:
		return fmt.Sprintf("%q", base64.StdEncoding.EncodeToString(p.value.([]byte)))
	case Date:
		return fmt.Sprintf("%q", p.value.(gotime.Time).Format(gotime.RFC3339Nano))
	}

	panic("unsupported value type")
}

// DeepCopy copies itself deeply.
func (p *Primitive) DeepCopy() Element {
	primitive := *p
	return &primitive
}

// CreatedAt returns the creation time of this Primitive.
func (p *Primitive) CreatedAt() *gtime.Ticket {
	return p.createdAt
}

// RemovedAt returns the removal time of this Primitive.
func (p *Primitive) RemovedAt() *gtime.Ticket {
	return p.removedAt
}

// MovedAt returns the move time of this Primitive.
func (p *Primitive) MovedAt() *gtime.Ticket {
	return p.movedAt
}

// SetMovedAt sets the move time of this Primitive.
func (p *Primitive) SetMovedAt(movedAt *gtime.Ticket) {
	p.movedAt = movedAt
}

// Remove removes this Primitive.
func (p *Primitive) Remove(removedAt *gtime.Ticket) bool {
	if removedAt != nil && removedAt.After(p.createdAt) &&
		(p.removedAt == nil || removedAt.After(p.removedAt)) {
		p.removedAt = removedAt
		return true
	}
	return false
}
