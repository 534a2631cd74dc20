package orm

import (
	"github.com/arbee-network/arbee"
)

// ConsumeIterator will read all remaining data into an
// array and close the iterator
func ConsumeIterator(itr arbee.Iterator) ([]arbee.Model, error) {
	defer itr.Close()

	var res []arbee.Model
	for itr.Valid() {
		res = append(res, arbee.Pair(itr.Key(), itr.Value()))
		if err := itr.Next(); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// queryPrefix returns all models stored under keys starting with prefix.
func queryPrefix(db arbee.ReadOnlyKVStore, prefix []byte) ([]arbee.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return ConsumeIterator(itr)
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}
