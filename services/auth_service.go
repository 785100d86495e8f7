package services

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/crimepatrol/backend/config"
	"github.com/crimepatrol/backend/db"
	apiError "github.com/crimepatrol/backend/errors"
	"github.com/crimepatrol/backend/mailingservices"
	"github.com/crimepatrol/backend/models"
	"github.com/crimepatrol/backend/services/jwt"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	SignupUser(user *models.User) (*models.User, *apiError.Error)
	LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error)
	LogoutUser(token string, email string) *apiError.Error
	RequestPasswordReset(email string) *apiError.Error
	ResetPassword(token string, newPassword string) *apiError.Error
	GetUserByID(id uint) (*models.UserResponse, *apiError.Error)
}

type authService struct {
	Config   *config.Config
	authRepo db.AuthRepository
	mail     *mailingservices.Mailgun
}

func NewAuthService(authRepo db.AuthRepository, conf *config.Config, mail *mailingservices.Mailgun) AuthService {
	return &authService{
		Config:   conf,
		authRepo: authRepo,
		mail:     mail,
	}
}

func (a *authService) SignupUser(user *models.User) (*models.User, *apiError.Error) {
	if err := models.ValidateWhiteSpaces(user); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}
	if errs := models.ValidateStruct(user); len(errs) > 0 {
		return nil, apiError.New(errs[0].Error(), http.StatusBadRequest)
	}
	user.Email = strings.ToLower(user.Email)

	if err := a.authRepo.IsEmailExist(user.Email); err != nil {
		return nil, apiError.New("email already in use", http.StatusBadRequest)
	}
	if user.Telephone != "" {
		if err := a.authRepo.IsPhoneExist(user.Telephone); err != nil {
			return nil, apiError.New("phone number already in use", http.StatusBadRequest)
		}
	}
	if err := models.ValidatePassword(user.Password); err != nil {
		return nil, apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("error hashing password: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.HashedPassword = string(hashed)
	user.Password = ""

	role, err := a.authRepo.FindRoleByName(models.RoleCitizen)
	if err != nil {
		log.Printf("error finding default role: %v", err)
		return nil, apiError.ErrInternalServerError
	}
	user.RoleID = role.ID

	createdUser, err := a.authRepo.CreateUser(user)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			return nil, apiError.GetUniqueContraintError(err)
		}
		log.Printf("error creating user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if a.mail != nil {
		go func() {
			if err := a.mail.SendWelcome(createdUser.Email, createdUser.Fullname); err != nil {
				log.Printf("welcome email failed for %s: %v", createdUser.Email, err)
			}
		}()
	}

	return createdUser, nil
}

func (a *authService) LoginUser(loginRequest *models.LoginRequest) (*models.LoginResponse, *apiError.Error) {
	email := strings.ToLower(loginRequest.Email)
	foundUser, err := a.authRepo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
		}
		log.Printf("error finding user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	if foundUser.IsBlocked {
		return nil, apiError.New("account is blocked", http.StatusForbidden)
	}

	if err := foundUser.VerifyPassword(loginRequest.Password); err != nil {
		return nil, apiError.New("invalid email or password", http.StatusUnauthorized)
	}

	role, err := a.authRepo.FindRoleByName(models.RoleAdmin)
	isAdmin := err == nil && foundUser.RoleID == role.ID

	accessToken, refreshToken, err := jwt.GenerateTokenPair(foundUser.Email, a.Config.JWTSecret, isAdmin, foundUser.ID)
	if err != nil {
		log.Printf("error generating token pair: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	return &models.LoginResponse{
		UserResponse: models.UserResponse{
			ID:        foundUser.ID,
			Fullname:  foundUser.Fullname,
			Username:  foundUser.Username,
			Telephone: foundUser.Telephone,
			Email:     foundUser.Email,
		},
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authService) LogoutUser(token string, email string) *apiError.Error {
	blacklist := &models.Blacklist{
		Token: token,
		Email: email,
	}
	if err := a.authRepo.AddToBlackList(blacklist); err != nil {
		log.Printf("error blacklisting token: %v", err)
		return apiError.ErrInternalServerError
	}
	return nil
}

func (a *authService) RequestPasswordReset(email string) *apiError.Error {
	email = strings.ToLower(email)
	user, err := a.authRepo.FindUserByEmail(email)
	if err != nil {
		// do not leak which emails exist
		if errors.Is(err, db.ErrUserNotFound) {
			return nil
		}
		log.Printf("error finding user for reset: %v", err)
		return apiError.ErrInternalServerError
	}

	resetToken, err := jwt.GenerateResetToken(user.Email, a.Config.JWTSecret)
	if err != nil {
		log.Printf("error generating reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	user.ResetToken = resetToken
	if err := a.authRepo.UpdateUser(user); err != nil {
		log.Printf("error storing reset token: %v", err)
		return apiError.ErrInternalServerError
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", a.Config.BaseUrl, resetToken)
	if a.mail != nil {
		if err := a.mail.SendResetPassword(user.Email, link); err != nil {
			log.Printf("reset email failed for %s: %v", user.Email, err)
			return apiError.New("could not send reset email", http.StatusServiceUnavailable)
		}
	}
	return nil
}

func (a *authService) ResetPassword(token string, newPassword string) *apiError.Error {
	claims, err := jwt.ValidateAndGetClaims(token, a.Config.JWTSecret)
	if err != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	if t, ok := claims["type"].(string); !ok || t != "reset" {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	email, ok := claims["user_email"].(string)
	if !ok {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}

	user, ferr := a.authRepo.FindUserByEmail(email)
	if ferr != nil {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}
	if user.ResetToken != token {
		return apiError.New("invalid or expired reset token", http.StatusUnauthorized)
	}

	if err := models.ValidatePassword(newPassword); err != nil {
		return apiError.New(err.Error(), http.StatusBadRequest)
	}

	hashed, herr := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if herr != nil {
		log.Printf("error hashing password: %v", herr)
		return apiError.ErrInternalServerError
	}

	if err := a.authRepo.UpdatePassword(string(hashed), email); err != nil {
		log.Printf("error updating password: %v", err)
		return apiError.ErrInternalServerError
	}

	user.ResetToken = ""
	if err := a.authRepo.UpdateUser(user); err != nil {
		log.Printf("error clearing reset token: %v", err)
	}
	return nil
}

func (a *authService) GetUserByID(id uint) (*models.UserResponse, *apiError.Error) {
	user, err := a.authRepo.FindUserByID(id)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			return nil, apiError.ErrNotFound
		}
		log.Printf("error finding user: %v", err)
		return nil, apiError.ErrInternalServerError
	}

	resp := &models.UserResponse{
		ID:        user.ID,
		Fullname:  user.Fullname,
		Username:  user.Username,
		Telephone: user.Telephone,
		Email:     user.Email,
		RoleName:  user.Role.Name,
	}
	return resp, nil
}
