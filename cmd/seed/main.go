package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var departmentID int64
	var departments int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机教室, 2: 插入随机教师, 3: 插入随机学期及课程)")
	flag.IntVar(&n, "n", 0, "要插入的记录数量，为 0 时使用配置文件中的默认值")
	flag.Int64Var(&departmentID, "department-id", 0, "随机插入教师所属的院系 ID")
	flag.IntVar(&departments, "departments", 3, "随机学期中需要创建的院系数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			n = cfg.Seed.Rooms
		}
		cnt := seed.SeedRooms(repo, n)
		slog.Info("插入教室成功", slog.Int("count", cnt))
	case 2:
		if departmentID <= 0 {
			slog.Error("请输入合法的院系 ID")
			return
		}
		if n <= 0 {
			n = cfg.Seed.Teachers
		}
		cnt := seed.SeedTeachers(repo, departmentID, n)
		slog.Info("插入教师成功", slog.Int("count", cnt))
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的课程数量")
			return
		}

		// 先创建院系并为每个院系插入教师
		departmentIDs := make([]int64, 0, departments)
		for i := 0; i < departments; i++ {
			department := &domain.Department{Name: fmt.Sprintf("院系 %d", i+1)}
			if err := repo.CreateDepartment(department); err != nil {
				slog.Error("无法插入院系", slog.String("error", err.Error()))
				return
			}
			departmentIDs = append(departmentIDs, department.ID)
			seed.SeedTeachers(repo, department.ID, cfg.Seed.Teachers)
		}
		seed.SeedRooms(repo, cfg.Seed.Rooms)

		if _, err := seed.SeedRandomTerm(repo, departmentIDs, n); err != nil {
			slog.Error("无法插入随机学期", slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}
