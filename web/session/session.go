package session

import (
	"encoding/gob"

	"github.com/AlvanCjh/paddock-panel/paddock"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const loginMember = "LOGIN_MEMBER"

func init() {
	gob.Register(paddock.Member{})
}

// SetMember stores the signed-in member in the session. Email, name, role
// and avatar go into one cookie write so no view can observe a partially
// updated identity.
func SetMember(c *gin.Context, member *paddock.Member) error {
	s := sessions.Default(c)
	s.Set(loginMember, *member)
	return s.Save()
}

func SetMaxAge(c *gin.Context, maxAge int) error {
	s := sessions.Default(c)
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: maxAge,
	})
	return s.Save()
}

func GetMember(c *gin.Context) *paddock.Member {
	s := sessions.Default(c)
	if obj := s.Get(loginMember); obj != nil {
		if member, ok := obj.(paddock.Member); ok {
			return &member
		}
	}
	return nil
}

func IsLogin(c *gin.Context) bool {
	return GetMember(c) != nil
}

func IsAdmin(c *gin.Context) bool {
	member := GetMember(c)
	return member != nil && member.IsAdmin()
}

func ClearMember(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	if err := s.Save(); err != nil {
		return err
	}
	c.SetCookie("paddock-panel", "", -1, "/", "", false, true)
	return nil
}
