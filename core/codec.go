package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted domain types. The layouts
// are append-only: new fields go at the end so older files stay readable.

// TrialMUS serializes Trial values.
var TrialMUS = trialMUS{}

type trialMUS struct{}

func (trialMUS) Marshal(t Trial, bs []byte) (n int) {
	n = ord.String.Marshal(t.DatasetID, bs)
	n += ord.String.Marshal(t.TrialID, bs[n:])
	n += ord.String.Marshal(t.Disease, bs[n:])
	n += ord.String.Marshal(t.Phase, bs[n:])
	n += marshalOptionalInt(t.NParticipants, bs[n:])
	n += ord.String.Marshal(t.Summary, bs[n:])
	n += ord.String.Marshal(t.OutcomesText, bs[n:])
	n += ord.String.Marshal(t.Status, bs[n:])
	n += ord.String.Marshal(t.Sponsor, bs[n:])
	n += ord.String.Marshal(t.StartDate, bs[n:])
	n += ord.String.Marshal(t.EndDate, bs[n:])
	n += varint.Int64.Marshal(t.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func (trialMUS) Unmarshal(bs []byte) (t Trial, n int, err error) {
	var n1 int
	if t.DatasetID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if t.TrialID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.Disease, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.Phase, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.NParticipants, n1, err = unmarshalOptionalInt(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.Summary, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.OutcomesText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.Status, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.Sponsor, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.StartDate, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if t.EndDate, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	t.IngestedAt = time.UnixMicro(micros).UTC()
	return
}

func (trialMUS) Size(t Trial) (size int) {
	size = ord.String.Size(t.DatasetID)
	size += ord.String.Size(t.TrialID)
	size += ord.String.Size(t.Disease)
	size += ord.String.Size(t.Phase)
	size += sizeOptionalInt(t.NParticipants)
	size += ord.String.Size(t.Summary)
	size += ord.String.Size(t.OutcomesText)
	size += ord.String.Size(t.Status)
	size += ord.String.Size(t.Sponsor)
	size += ord.String.Size(t.StartDate)
	size += ord.String.Size(t.EndDate)
	size += varint.Int64.Size(t.IngestedAt.UnixMicro())
	return size
}

// DatasetMUS serializes Dataset registry entries.
var DatasetMUS = datasetMUS{}

type datasetMUS struct{}

func (datasetMUS) Marshal(d Dataset, bs []byte) (n int) {
	n = ord.String.Marshal(d.ID, bs)
	n += ord.String.Marshal(d.Name, bs[n:])
	n += ord.String.Marshal(d.SourcePath, bs[n:])
	n += varint.Int.Marshal(d.RowCount, bs[n:])
	n += ord.String.Marshal(d.Notes, bs[n:])
	n += varint.Int64.Marshal(d.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func (datasetMUS) Unmarshal(bs []byte) (d Dataset, n int, err error) {
	var n1 int
	if d.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if d.Name, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if d.SourcePath, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if d.RowCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	if d.Notes, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	var micros int64
	if micros, n1, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	d.IngestedAt = time.UnixMicro(micros).UTC()
	return
}

func (datasetMUS) Size(d Dataset) (size int) {
	size = ord.String.Size(d.ID)
	size += ord.String.Size(d.Name)
	size += ord.String.Size(d.SourcePath)
	size += varint.Int.Size(d.RowCount)
	size += ord.String.Size(d.Notes)
	size += varint.Int64.Size(d.IngestedAt.UnixMicro())
	return size
}

// TrialKeyMUS serializes TrialKey values.
var TrialKeyMUS = trialKeyMUS{}

type trialKeyMUS struct{}

func (trialKeyMUS) Marshal(k TrialKey, bs []byte) (n int) {
	n = ord.String.Marshal(k.DatasetID, bs)
	n += ord.String.Marshal(k.TrialID, bs[n:])
	return n
}

func (trialKeyMUS) Unmarshal(bs []byte) (k TrialKey, n int, err error) {
	var n1 int
	if k.DatasetID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if k.TrialID, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return
	}
	n += n1
	return
}

func (trialKeyMUS) Size(k TrialKey) int {
	return ord.String.Size(k.DatasetID) + ord.String.Size(k.TrialID)
}

func marshalOptionalInt(v *int, bs []byte) (n int) {
	n = ord.Bool.Marshal(v != nil, bs)
	if v != nil {
		n += varint.Int.Marshal(*v, bs[n:])
	}
	return n
}

func unmarshalOptionalInt(bs []byte) (v *int, n int, err error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	value, n1, err := varint.Int.Unmarshal(bs[n:])
	if err != nil {
		return nil, n + n1, err
	}
	return &value, n + n1, nil
}

func sizeOptionalInt(v *int) int {
	size := ord.Bool.Size(v != nil)
	if v != nil {
		size += varint.Int.Size(*v)
	}
	return size
}
