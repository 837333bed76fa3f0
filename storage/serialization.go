// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/poiesic/vestige/core"
)

// MarshalDigest serializes a Digest to bytes.
func MarshalDigest(digest core.Digest) []byte {
	buf := make([]byte, core.DigestMUS.Size(digest))
	core.DigestMUS.Marshal(digest, buf)
	return buf
}

// UnmarshalDigest deserializes a Digest from bytes.
func UnmarshalDigest(data []byte) (core.Digest, error) {
	digest, _, err := core.DigestMUS.Unmarshal(data)
	if err != nil {
		return "", fmt.Errorf("%w: digest: %w", ErrSerializationFailed, err)
	}
	return digest, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: document: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalOutput serializes an Output to bytes.
func MarshalOutput(output *core.Output) []byte {
	buf := make([]byte, core.OutputMUS.Size(*output))
	core.OutputMUS.Marshal(*output, buf)
	return buf
}

// UnmarshalOutput deserializes an Output from bytes.
func UnmarshalOutput(data []byte) (*core.Output, error) {
	output, _, err := core.OutputMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: output: %w", ErrSerializationFailed, err)
	}
	return &output, nil
}
