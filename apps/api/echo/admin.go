package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/feedback"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/stats"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/support"
	"github.com/2023UCA1802/Infosys-Study-AI-Recommender/core/user"
)

type adminDeps struct {
	users    *user.Service
	stats    *stats.Service
	feedback *feedback.Service
	support  *support.Service
	validate *validator.Validate
}

type adminApi struct {
	*adminDeps
}

// registerAdminAPI expects g to be guarded by the admin middleware.
func registerAdminAPI(g *echo.Group, deps *adminDeps) {
	api := adminApi{deps}

	g.GET("/students", api.queryStudentStats)
	g.GET("/students/list", api.queryStudents)
	g.GET("/stats/:email", api.studentStats)

	g.GET("/all-feedback", api.queryFeedback)
	g.PUT("/feedback/:id/status", api.setFeedbackStatus)
	g.DELETE("/feedback/:id", api.destroyFeedback)

	g.GET("/support", api.querySupport)
	g.PUT("/support/:id/reply", api.replySupport)
	g.POST("/support/message", api.sendSupportMessage)
}

func (api *adminApi) queryStudentStats(ctx echo.Context) error {
	students, err := api.stats.ListStudentsWithStats(ctx.Request().Context())
	if err != nil {
		return err
	}
	if students == nil {
		students = []stats.StudentStats{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "students": students})
}

func (api *adminApi) queryStudents(ctx echo.Context) error {
	students, err := api.stats.ListStudents(ctx.Request().Context())
	if err != nil {
		return err
	}
	if students == nil {
		students = []user.Summary{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "students": students})
}

func (api *adminApi) studentStats(ctx echo.Context) error {
	detail, err := api.stats.StudentDetailStats(ctx.Request().Context(), ctx.Param("email"))
	if err != nil {
		return errors.Wrap(err, "computing student stats")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"success":               true,
		"goalsDistribution":     detail.GoalsDistribution,
		"goalProgressBins":      detail.GoalProgressBins,
		"studyTimeDistribution": detail.StudyTimeDistribution,
		"weeklyStudyHours":      detail.WeeklyStudyHours,
	})
}

func (api *adminApi) queryFeedback(ctx echo.Context) error {
	fbs, err := api.feedback.ListAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "feedbacks": nonNilFeedback(fbs)})
}

func (api *adminApi) setFeedbackStatus(ctx echo.Context) error {
	var data feedback.SetStatus
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetStatus")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if err := api.feedback.SetStatus(ctx.Request().Context(), ctx.Param("id"), data.Status); err != nil {
		return errors.Wrap(err, "setting feedback status")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Feedback status updated"})
}

func (api *adminApi) destroyFeedback(ctx echo.Context) error {
	if err := api.feedback.DeleteAny(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting feedback")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Feedback deleted successfully"})
}

func (api *adminApi) querySupport(ctx echo.Context) error {
	qs, err := api.support.ListAll(ctx.Request().Context())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "queries": nonNilQueries(qs)})
}

func (api *adminApi) replySupport(ctx echo.Context) error {
	var data support.Reply
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Reply")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	if _, err := api.support.Reply(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		return errors.Wrap(err, "replying to support query")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Reply sent successfully"})
}

func (api *adminApi) sendSupportMessage(ctx echo.Context) error {
	var data support.AdminMessage
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminMessage")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	if _, err := api.users.GetByEmail(reqCtx, data.UserEmail); err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return core.NewFieldError("userEmail", "no student with this email")
		}
		return errors.Wrap(err, "finding recipient")
	}
	q, err := api.support.SendMessage(reqCtx, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "message": "Message sent successfully", "query": q})
}
