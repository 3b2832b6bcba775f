package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/theleywin/Backend-Skill-Swap/pkg/errors"
	"github.com/theleywin/Backend-Skill-Swap/pkg/logger"
	"github.com/theleywin/Backend-Skill-Swap/src/models"
)

const (
	bcryptCost = 11
	otpTTL     = 5 * time.Minute

	defaultProfilePhoto = "https://img.freepik.com/free-vector/blue-circle-with-white-user_78370-4707.jpg"
)

// AuthService handles registration, login and the OTP password-reset flow.
// Token minting stays in src/lib; this service only decides whether the
// caller deserves one.
type AuthService struct {
	users  UserStore
	otps   OtpStore
	mailer Mailer
	logger *logger.Logger
	now    func() time.Time
}

func NewAuthService(users UserStore, otps OtpStore, mailer Mailer, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		otps:   otps,
		mailer: mailer,
		logger: log,
		now:    time.Now,
	}
}

type RegisterCommand struct {
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Username      string   `json:"username"`
	ProfilePhoto  string   `json:"profile_photo"`
	Location      string   `json:"location"`
	Availability  []string `json:"availability"`
	PublicProfile *bool    `json:"public_profile"`
	SkillsOffered []string `json:"skills_offered"`
	SkillsWanted  []string `json:"skills_wanted"`
	GithubProfile string   `json:"github_profile"`
}

// Register creates a user. Email, password, at least one offered and one
// wanted skill and a github profile are required.
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*models.User, error) {
	if cmd.Email == "" || cmd.Password == "" || cmd.GithubProfile == "" ||
		len(cmd.SkillsOffered) == 0 || len(cmd.SkillsWanted) == 0 {
		return nil, apperrors.InvalidArg("required fields missing")
	}
	if len(cmd.Password) < 6 {
		return nil, apperrors.InvalidArg("password must be at least 6 characters")
	}

	existing, err := s.users.FindByEmail(ctx, cmd.Email)
	if err != nil {
		s.logger.Error("failed to check existing user", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if existing != nil {
		return nil, apperrors.InvalidState("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "err", err)
		return nil, apperrors.Internal("server error")
	}

	now := s.now()
	user := &models.User{
		Id:            primitive.NewObjectID(),
		Username:      cmd.Username,
		Email:         cmd.Email,
		Password:      string(hash),
		ProfilePhoto:  cmd.ProfilePhoto,
		Location:      cmd.Location,
		Availability:  cmd.Availability,
		PublicProfile: true,
		SkillsOffered: cmd.SkillsOffered,
		SkillsWanted:  cmd.SkillsWanted,
		GithubProfile: cmd.GithubProfile,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if user.ProfilePhoto == "" {
		user.ProfilePhoto = defaultProfilePhoto
	}
	if len(user.Availability) == 0 {
		user.Availability = []string{"Weekends"}
	}
	if cmd.PublicProfile != nil {
		user.PublicProfile = *cmd.PublicProfile
	}

	if err := s.users.Insert(ctx, user); err != nil {
		s.logger.Error("failed to create user", "err", err)
		return nil, apperrors.Internal("user not created")
	}

	user.Password = ""
	return user, nil
}

// Login checks the credentials and returns the account on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.InvalidArg("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to look up user", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if user == nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	user.Password = ""
	return user, nil
}

// ForgotPassword issues a 6-digit OTP valid for five minutes and mails it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return apperrors.InvalidArg("email is required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to look up user", "err", err)
		return apperrors.Internal("server error")
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}

	code, err := generateOTP()
	if err != nil {
		s.logger.Error("failed to generate OTP", "err", err)
		return apperrors.Internal("server error")
	}

	now := s.now()
	err = s.otps.Insert(ctx, &models.Otp{
		Id:        primitive.NewObjectID(),
		Email:     email,
		Code:      code,
		ExpiresAt: now.Add(otpTTL),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Error("failed to store OTP", "err", err)
		return apperrors.Internal("server error")
	}

	html := fmt.Sprintf("<h2>Password Reset</h2><p>Your OTP is: <strong>%s</strong></p><p>This OTP is valid for 5 minutes.</p>", code)
	if err := s.mailer.Send(ctx, email, "Password Reset OTP", html); err != nil {
		s.logger.Error("failed to send OTP mail", "err", err)
		return apperrors.Internal("failed to send OTP")
	}
	return nil
}

// VerifyOtp checks a code without consuming it, so the client can validate
// before submitting the new password.
func (s *AuthService) VerifyOtp(ctx context.Context, email, code string) error {
	if email == "" || code == "" {
		return apperrors.InvalidArg("email and OTP are required")
	}

	otp, err := s.otps.FindValid(ctx, email, code, s.now())
	if err != nil {
		s.logger.Error("failed to look up OTP", "err", err)
		return apperrors.Internal("server error")
	}
	if otp == nil {
		return apperrors.InvalidArg("invalid or expired OTP")
	}
	return nil
}

// ResetPassword sets a new password for the account after a final OTP check,
// then consumes every OTP issued to the email.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return apperrors.InvalidArg("email, OTP and new password are required")
	}
	if len(newPassword) < 6 {
		return apperrors.InvalidArg("password must be at least 6 characters")
	}

	otp, err := s.otps.FindValid(ctx, email, code, s.now())
	if err != nil {
		s.logger.Error("failed to look up OTP", "err", err)
		return apperrors.Internal("server error")
	}
	if otp == nil {
		return apperrors.InvalidArg("invalid or expired OTP")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to look up user", "err", err)
		return apperrors.Internal("server error")
	}
	if user == nil {
		return apperrors.NotFound("user not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "err", err)
		return apperrors.Internal("server error")
	}
	if err := s.users.UpdatePassword(ctx, user.Id, string(hash)); err != nil {
		s.logger.Error("failed to update password", "err", err)
		return apperrors.Internal("server error")
	}

	if err := s.otps.DeleteByEmail(ctx, email); err != nil {
		s.logger.Error("failed to clean up OTPs", "err", err)
	}
	return nil
}

type ProfileUpdate struct {
	Username      *string   `json:"username"`
	ProfilePhoto  *string   `json:"profile_photo"`
	Location      *string   `json:"location"`
	Availability  *[]string `json:"availability"`
	PublicProfile *bool     `json:"public_profile"`
	SkillsOffered *[]string `json:"skills_offered"`
	SkillsWanted  *[]string `json:"skills_wanted"`
	GithubProfile *string   `json:"github_profile"`
	Email         *string   `json:"email"`
}

// UpdateProfile applies the provided fields to the actor's profile. Email is
// immutable.
func (s *AuthService) UpdateProfile(ctx context.Context, actor primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	if update.Email != nil {
		return nil, apperrors.InvalidArg("email cannot be updated")
	}

	set := bson.M{"updatedAt": s.now()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.ProfilePhoto != nil {
		set["profile_photo"] = *update.ProfilePhoto
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Availability != nil {
		set["availability"] = *update.Availability
	}
	if update.PublicProfile != nil {
		set["public_profile"] = *update.PublicProfile
	}
	if update.SkillsOffered != nil {
		if len(*update.SkillsOffered) == 0 {
			return nil, apperrors.InvalidArg("at least one offered skill is required")
		}
		set["skills_offered"] = *update.SkillsOffered
	}
	if update.SkillsWanted != nil {
		if len(*update.SkillsWanted) == 0 {
			return nil, apperrors.InvalidArg("at least one wanted skill is required")
		}
		set["skills_wanted"] = *update.SkillsWanted
	}
	if update.GithubProfile != nil {
		set["github_profile"] = *update.GithubProfile
	}

	user, err := s.users.UpdateProfile(ctx, actor, set)
	if err != nil {
		s.logger.Error("failed to update profile", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}

	user.Password = ""
	return user, nil
}

// GetProfile returns another user's public profile. Accounts that opted out
// of a public profile read as not found to everyone but themselves.
func (s *AuthService) GetProfile(ctx context.Context, actor, id primitive.ObjectID) (*models.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to look up user", "err", err)
		return nil, apperrors.Internal("server error")
	}
	if user == nil || (!user.PublicProfile && user.Id != actor) {
		return nil, apperrors.NotFound("user not found")
	}

	public := user.Public()
	return &public, nil
}

// generateOTP returns a random 6-digit code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
