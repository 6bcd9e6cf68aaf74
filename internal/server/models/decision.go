package models

import (
	"encoding/json"
	"fmt"
)

// DecisionData is what a decision link shows to the approver: the Point or
// Upgrade under decision together with its System. It is written to JSON as
// the entity's own fields plus "system" and "dataType".
type DecisionData struct {
	DataType DecisionTarget
	Point    *Point
	Upgrade  *Upgrade
	System   *System
}

func (d DecisionData) MarshalJSON() ([]byte, error) {
	var entity any = d.Point
	if d.DataType == TargetUpgrade {
		entity = d.Upgrade
	}
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decision data: %w", err)
	}
	if fields["system"], err = json.Marshal(d.System); err != nil {
		return nil, err
	}
	if fields["dataType"], err = json.Marshal(d.DataType); err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}
