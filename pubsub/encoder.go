// Copyright 2021 Converter Systems LLC. All rights reserved.

package pubsub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/awcullen/opcua-pubsub/ua"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// JSONEncoder encodes a DataSetMessage as a JSON NetworkMessage with one DataSetMessage.
type JSONEncoder struct{}

type jsonNetworkMessage struct {
	MessageID   string               `json:"MessageId"`
	MessageType string               `json:"MessageType"`
	PublisherID string               `json:"PublisherId"`
	Messages    []jsonDataSetMessage `json:"Messages"`
}

type jsonDataSetMessage struct {
	DataSetWriterID uint16      `json:"DataSetWriterId"`
	WriterGroupID   uint16      `json:"WriterGroupId"`
	SequenceNumber  uint16      `json:"SequenceNumber"`
	MessageType     string      `json:"MessageType"`
	Timestamp       time.Time   `json:"Timestamp"`
	Payload         jsonPayload `json:"Payload"`
}

// jsonPayload keeps the order of the fields.
type jsonPayload []DataSetFieldValue

type jsonBadValue struct {
	StatusCode uint32 `json:"StatusCode"`
}

func (p jsonPayload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		var v []byte
		if f.Value.StatusCode.IsBad() {
			v, err = json.Marshal(jsonBadValue{StatusCode: uint32(f.Value.StatusCode)})
		} else {
			v, err = json.Marshal(jsonValue(f.Value.Value))
		}
		if err != nil {
			return nil, errors.Wrapf(err, "field '%s'", f.Name)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue maps the non-finite floats to "NaN", "Infinity" and "-Infinity".
func jsonValue(v ua.Variant) interface{} {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return v
	}
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return v
}

// Encode returns the JSON encoding of the message.
func (e JSONEncoder) Encode(msg *DataSetMessage) ([]byte, error) {
	b, err := json.Marshal(jsonNetworkMessage{
		MessageID:   uuid.NewString(),
		MessageType: "ua-data",
		PublisherID: strconv.FormatUint(uint64(msg.PublisherID), 10),
		Messages: []jsonDataSetMessage{{
			DataSetWriterID: msg.DataSetWriterID,
			WriterGroupID:   msg.WriterGroupID,
			SequenceNumber:  msg.SequenceNumber,
			MessageType:     msg.MessageType(),
			Timestamp:       msg.Timestamp,
			Payload:         jsonPayload(msg.Fields),
		}},
	})
	if err != nil {
		return nil, errors.Wrap(ua.BadEncodingError, err.Error())
	}
	return b, nil
}

// ContentType returns "application/json".
func (e JSONEncoder) ContentType() string {
	return "application/json"
}

// CBOREncoder encodes a DataSetMessage as canonical CBOR with integer keys.
type CBOREncoder struct {
	mode cbor.EncMode
	dec  cbor.DecMode
}

type cborField struct {
	Name       string      `cbor:"1,keyasint"`
	Value      interface{} `cbor:"2,keyasint,omitempty"`
	StatusCode uint32      `cbor:"3,keyasint,omitempty"`
	Timestamp  time.Time   `cbor:"4,keyasint"`
}

type cborDataSetMessage struct {
	PublisherID     uint32      `cbor:"1,keyasint"`
	WriterGroupID   uint16      `cbor:"2,keyasint"`
	DataSetWriterID uint16      `cbor:"3,keyasint"`
	SequenceNumber  uint16      `cbor:"4,keyasint"`
	KeyFrame        bool        `cbor:"5,keyasint"`
	Timestamp       time.Time   `cbor:"6,keyasint"`
	Fields          []cborField `cbor:"7,keyasint"`
}

// NewCBOREncoder returns a CBOREncoder with sorted keys and nanosecond timestamps.
func NewCBOREncoder() (*CBOREncoder, error) {
	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	mode, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder mode: %w", err)
	}
	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	dec, err := decOpts.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR decoder mode: %w", err)
	}
	return &CBOREncoder{mode: mode, dec: dec}, nil
}

func toCBOR(msg *DataSetMessage) cborDataSetMessage {
	m := cborDataSetMessage{
		PublisherID:     msg.PublisherID,
		WriterGroupID:   msg.WriterGroupID,
		DataSetWriterID: msg.DataSetWriterID,
		SequenceNumber:  msg.SequenceNumber,
		KeyFrame:        msg.KeyFrame,
		Timestamp:       msg.Timestamp,
		Fields:          make([]cborField, len(msg.Fields)),
	}
	for i, f := range msg.Fields {
		m.Fields[i] = cborField{
			Name:       f.Name,
			Value:      f.Value.Value,
			StatusCode: uint32(f.Value.StatusCode),
			Timestamp:  f.Value.SourceTimestamp,
		}
	}
	return m
}

// Encode returns the CBOR encoding of the message.
func (e *CBOREncoder) Encode(msg *DataSetMessage) ([]byte, error) {
	b, err := e.mode.Marshal(toCBOR(msg))
	if err != nil {
		return nil, errors.Wrap(ua.BadEncodingError, err.Error())
	}
	return b, nil
}

// EncodeTo writes the CBOR encoding of the message to w.
func (e *CBOREncoder) EncodeTo(w io.Writer, msg *DataSetMessage) error {
	if err := e.mode.NewEncoder(w).Encode(toCBOR(msg)); err != nil {
		return errors.Wrap(ua.BadEncodingError, err.Error())
	}
	return nil
}

// Decode returns the message of a CBOR encoding. Field values are decoded to their CBOR types,
// so timestamps in values are returned as strings.
func (e *CBOREncoder) Decode(b []byte) (*DataSetMessage, error) {
	var m cborDataSetMessage
	if err := e.dec.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(ua.BadEncodingError, err.Error())
	}
	msg := &DataSetMessage{
		PublisherID:     m.PublisherID,
		WriterGroupID:   m.WriterGroupID,
		DataSetWriterID: m.DataSetWriterID,
		SequenceNumber:  m.SequenceNumber,
		KeyFrame:        m.KeyFrame,
		Timestamp:       m.Timestamp,
		Fields:          make([]DataSetFieldValue, len(m.Fields)),
	}
	for i, f := range m.Fields {
		msg.Fields[i] = DataSetFieldValue{
			Name:  f.Name,
			Value: ua.NewDataValue(f.Value, ua.StatusCode(f.StatusCode), f.Timestamp, time.Time{}),
		}
	}
	return msg, nil
}

// ContentType returns "application/cbor".
func (e *CBOREncoder) ContentType() string {
	return "application/cbor"
}
