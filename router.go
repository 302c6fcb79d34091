package main

import (
	handler "bammbuu-live/biz/adaptor/controller"
	"bammbuu-live/biz/adaptor/controller/apigateway"

	"github.com/cloudwego/hertz/pkg/app/server"
)

// customizeRegister registers customize routers.
func customizedRegister(r *server.Hertz) {
	r.GET("/ping", handler.Ping)

	apiV1 := r.Group("/api/v1")
	{
		user := apiV1.Group("/user")
		{
			user.POST("/sign_in", apigateway.SignIn)
			user.POST("/send_verify_code", apigateway.SendVerifyCode)
			user.GET("/info", apigateway.GetUserInfo)
			user.POST("/update", apigateway.UpdateUserInfo)
		}

		class := apiV1.Group("/class")
		{
			class.POST("/create", apigateway.CreateClass)
			class.GET("/get", apigateway.GetClass)
			class.GET("/list", apigateway.ListClasses)
			class.POST("/join", apigateway.JoinClass)
			class.POST("/leave", apigateway.LeaveClass)
			class.POST("/delete", apigateway.DeleteClass)
		}

		group := apiV1.Group("/group")
		{
			group.POST("/create", apigateway.CreateGroup)
			group.GET("/get", apigateway.GetGroup)
			group.GET("/list", apigateway.ListGroups)
			group.POST("/join", apigateway.JoinGroup)
			group.POST("/leave", apigateway.LeaveGroup)
			group.POST("/delete", apigateway.DeleteGroup)
		}

		room := apiV1.Group("/room")
		{
			room.POST("/create_batch", apigateway.CreateRooms)
			room.GET("/list", apigateway.ListRooms)
		}

		call := apiV1.Group("/call")
		{
			call.POST("/join", apigateway.JoinCall)
			call.POST("/join_main", apigateway.JoinMainClass)
			call.POST("/leave", apigateway.LeaveCall)
			call.POST("/heartbeat", apigateway.Heartbeat)
			call.GET("/watch", apigateway.WatchRoster)
		}

		chat := apiV1.Group("/chat")
		{
			chat.POST("/ensure_channel", apigateway.EnsureChannel)
		}

		plan := apiV1.Group("/plan")
		{
			plan.GET("/list", apigateway.ListPlans)
		}

		recording := apiV1.Group("/recording")
		{
			recording.POST("/apply_url", apigateway.ApplyRecordingUrl)
		}
	}
}
