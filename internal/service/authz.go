package service

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/AdarshKhare29/Karban-board/internal/model"
)

// The two denial classes surface identically to the client (403) but are
// logged distinctly: absence of membership vs. membership with an
// insufficient role.
var (
	errNotParticipant = errors.New("40301:not a board participant")
	errRoleForbidden  = errors.New("40302:your role does not allow this action")
)

// roleOf resolves the caller's role on a board from current membership state.
// It is always called at mutation time; roles are never cached or trusted
// from earlier in the request.
func roleOf(db *gorm.DB, boardID, userID uint) (string, error) {
	var member model.BoardMember
	err := db.Where("board_id = ? AND user_id = ?", boardID, userID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithFields(logrus.Fields{"board_id": boardID, "user_id": userID}).
				Info("authorization denied: not a board participant")
			return "", errNotParticipant
		}
		return "", err
	}
	return member.Role, nil
}

func canWrite(role string) bool {
	return role == model.RoleOwner || role == model.RoleMember
}

// requireWriter resolves the role and rejects viewers and non-members.
func requireWriter(db *gorm.DB, boardID, userID uint) (string, error) {
	role, err := roleOf(db, boardID, userID)
	if err != nil {
		return "", err
	}
	if !canWrite(role) {
		logrus.WithFields(logrus.Fields{"board_id": boardID, "user_id": userID, "role": role}).
			Info("authorization denied: role forbids this action")
		return "", errRoleForbidden
	}
	return role, nil
}

// requireOwner resolves the role and rejects everyone but owners. Membership
// writes go through this.
func requireOwner(db *gorm.DB, boardID, userID uint) error {
	role, err := roleOf(db, boardID, userID)
	if err != nil {
		return err
	}
	if role != model.RoleOwner {
		logrus.WithFields(logrus.Fields{"board_id": boardID, "user_id": userID, "role": role}).
			Info("authorization denied: owner required")
		return errRoleForbidden
	}
	return nil
}
