// SPDX-FileCopyrightText: © 2025 DSLab - Fondazione Bruno Kessler
//
// SPDX-License-Identifier: Apache-2.0

package dataset

import "encoding/json"

// Dataset is a summary of GET /datasets; Raw keeps the full platform object.
type Dataset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Batches     []string        `json:"batches"`
	Raw         json.RawMessage `json:"-"`
}

func (d *Dataset) UnmarshalJSON(b []byte) error {
	type plain Dataset
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = Dataset(p)
	d.Raw = append(json.RawMessage(nil), b...)
	return nil
}

type DeleteBatchRequest struct {
	DatasetID string
	Batch     string
}
