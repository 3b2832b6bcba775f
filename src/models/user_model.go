package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	Id            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username      string             `json:"username" bson:"username"`
	Email         string             `json:"email" bson:"email"`
	Password      string             `json:"password,omitempty" bson:"password"`
	ProfilePhoto  string             `json:"profile_photo" bson:"profile_photo"`
	Location      string             `json:"location" bson:"location"`
	Availability  []string           `json:"availability" bson:"availability"`
	PublicProfile bool               `json:"public_profile" bson:"public_profile"`
	SkillsOffered []string           `json:"skills_offered" bson:"skills_offered"`
	SkillsWanted  []string           `json:"skills_wanted" bson:"skills_wanted"`
	GithubProfile string             `json:"github_profile" bson:"github_profile"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is the reduced projection shared with other users, e.g. as the
// counterpart of a connection or the receiver of a call.
type PublicUser struct {
	Id            primitive.ObjectID `json:"id" bson:"_id"`
	Username      string             `json:"username" bson:"username"`
	ProfilePhoto  string             `json:"profile_photo" bson:"profile_photo"`
	SkillsOffered []string           `json:"skills_offered" bson:"skills_offered"`
	SkillsWanted  []string           `json:"skills_wanted" bson:"skills_wanted"`
}

// Public reduces a full user record to its shareable fields.
func (u *User) Public() PublicUser {
	return PublicUser{
		Id:            u.Id,
		Username:      u.Username,
		ProfilePhoto:  u.ProfilePhoto,
		SkillsOffered: u.SkillsOffered,
		SkillsWanted:  u.SkillsWanted,
	}
}
