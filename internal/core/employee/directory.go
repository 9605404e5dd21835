package employee

import (
	"context"
	"sync"
)

// Snapshot は社員ディレクトリの不変なスナップショットです。
type Snapshot struct {
	byName map[string]Employee
	names  []string
}

func newSnapshot(employees []*Employee) *Snapshot {
	s := &Snapshot{
		byName: make(map[string]Employee, len(employees)),
		names:  make([]string, 0, len(employees)),
	}
	for _, e := range employees {
		if e == nil {
			continue
		}
		if _, dup := s.byName[e.FullName]; dup {
			continue
		}
		s.byName[e.FullName] = *e
		s.names = append(s.names, e.FullName)
	}
	return s
}

// Lookup は表示キー (氏名) で社員を引きます。返り値はコピーです。
func (s *Snapshot) Lookup(fullName string) (Employee, bool) {
	if s == nil {
		return Employee{}, false
	}
	e, ok := s.byName[fullName]
	return e, ok
}

// Names は読み込み順 (氏名順) の表示キー一覧を返します。
func (s *Snapshot) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len はスナップショットに含まれる社員数です。
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Directory は社員の参照用スナップショットをキャッシュします。
type Directory struct {
	repo Repository

	mu      sync.Mutex
	current *Snapshot
	// gen は Invalidate のたびに進み、古い読み込み結果の保存を防ぎます。
	gen     uint64
}

// NewDirectory は Directory を生成します。
func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

// Load はキャッシュ済みのスナップショットを返し、未読込であれば Refresh します。
func (d *Directory) Load(ctx context.Context) (*Snapshot, error) {
	d.mu.Lock()
	current := d.current
	d.mu.Unlock()

	if current != nil {
		return current, nil
	}
	return d.Refresh(ctx)
}

// Refresh はリポジトリから読み直して新しいスナップショットに置き換えます。
// 読み込み中に Invalidate された場合、結果は返しますがキャッシュには保存しません。
func (d *Directory) Refresh(ctx context.Context) (*Snapshot, error) {
	d.mu.Lock()
	gen := d.gen
	d.mu.Unlock()

	employees, err := d.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(employees)

	d.mu.Lock()
	if d.gen == gen {
		d.current = snap
	}
	d.mu.Unlock()

	return snap, nil
}

// Invalidate はキャッシュを破棄し、次回の Load で再読み込みさせます。
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.current = nil
	d.gen++
	d.mu.Unlock()
}
