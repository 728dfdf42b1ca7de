package user

import "context"

type StubUserRepo struct {
	nextId int
	data   map[string]User
}

func NewStubUserRepo() *StubUserRepo {
	return &StubUserRepo{data: map[string]User{}}
}

func (s *StubUserRepo) CreateUser(ctx context.Context, user User) (int, error) {
	s.nextId++
	user.Id = s.nextId
	s.data[user.Uid] = user
	return user.Id, nil
}

func (s *StubUserRepo) GetUserByUid(ctx context.Context, uid string) (User, error) {
	user, ok := s.data[uid]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
