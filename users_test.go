package zohocrm

import (
	"net/http"

	"github.com/rubyzoho/zohocrm.go/pkg/users"
)

const userList = `<?xml version="1.0" encoding="UTF-8" ?>
<users>
<user id="1" email="alice@example.com" role="CEO" profile="Administrator" status="active" confirm="true">Alice</user>
<user id="2" email="bob@example.com" role="Manager" profile="Standard" status="active" confirm="true">Bob</user>
</users>`

func (s *ClientTestSuite) countUserCalls() int {
	n := 0
	for _, req := range s.server.Requests() {
		if req.Module == "Users" && req.Action == "getUsers" {
			n++
		}
	}
	return n
}

func (s *ClientTestSuite) TestUsersAreCached() {
	s.server.Stub("Users", "getUsers", http.StatusOK, userList)

	list, err := s.client.Users(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Alice", list[0].String(users.NameKey))
	s.Equal("bob@example.com", list[1].String("email"))

	_, err = s.client.Users(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, s.countUserCalls())

	req := s.lastRequest()
	s.Equal("AllUsers", req.Params.Get("type"))

	_, err = s.client.RefreshUsers(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, s.countUserCalls())

	s.client.InvalidateUsers()
	_, err = s.client.Users(s.ctx)
	s.Require().NoError(err)
	s.Equal(3, s.countUserCalls())
}

func (s *ClientTestSuite) TestUserFields() {
	s.server.Stub("Users", "getUsers", http.StatusOK, userList)

	fields, err := s.client.UserFields(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"confirm", "email", "id", "profile", "role", "status", "user_name"}, fields)
}
