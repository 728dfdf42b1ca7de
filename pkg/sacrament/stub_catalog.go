package sacrament

import "context"

type StubCatalog struct {
	types []SacramentType
}

func NewStubCatalog(names ...string) *StubCatalog {
	stub := &StubCatalog{}
	for i, name := range names {
		stub.types = append(stub.types, SacramentType{ID: i + 1, Name: name, DisplayName: name})
	}
	return stub
}

func (s *StubCatalog) GetAll(ctx context.Context) ([]SacramentType, error) {
	return s.types, nil
}

func (s *StubCatalog) Exists(ctx context.Context, name string) (bool, error) {
	for _, st := range s.types {
		if st.Name == name {
			return true, nil
		}
	}
	return false, nil
}
