package services

import (
	"log/slog"

	"github.com/campus-core/portal-client/internal/gateway"
	"github.com/campus-core/portal-client/internal/validator"
)

type serviceManager struct {
	admin   AdminService
	teacher TeacherService
	student StudentService
}

// NewServiceManager builds the role services over a shared gateway
// client. The validator runs request payloads before they hit the wire.
func NewServiceManager(client *gateway.Client, v *validator.Validator, logger *slog.Logger) ServiceManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceManager{
		admin:   &adminService{client: client, validator: v, logger: logger},
		teacher: &teacherService{client: client, validator: v, logger: logger},
		student: &studentService{client: client, validator: v, logger: logger},
	}
}

func (sm *serviceManager) Admin() AdminService     { return sm.admin }
func (sm *serviceManager) Teacher() TeacherService { return sm.teacher }
func (sm *serviceManager) Student() StudentService { return sm.student }
