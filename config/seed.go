package config

import (
	"gorm.io/gorm"

	"github.com/cppla/missionboard/models"
)

// DefaultMissions is the catalog seeded into an empty database.
func DefaultMissions() []models.Mission {
	return []models.Mission{
		{Title: "매일 말씀 읽기", Description: "매일 말씀을 읽어보세요", Points: 1, Category: models.CategoryWord, Icon: "BookOpen"},
		{Title: "매일 아침 부서방에 말씀 업로드", Description: "매일 아침 부서방에 말씀을 업로드하세요", Points: 1, Category: models.CategoryWord, Icon: "Upload"},
		{Title: "전도 관련 말씀 듣기", Description: "전도 관련 말씀(조각말씀 포함)을 들어보세요", Points: 1, Category: models.CategoryWord, Icon: "Headphones"},
		{Title: "교회 설교시간에 노트필기하기", Description: "설교시간에 노트를 필기하세요", Points: 1, Category: models.CategoryWord, Icon: "PenTool"},
		{Title: "특별집회 참석", Description: "특별집회에 참석하세요 (총 3일차 각 1점)", Points: 1, Category: models.CategoryWord, Icon: "Calendar"},
		{Title: "주 1회 성구암송 외우기", Description: "주 1회 성구암송을 외워보세요", Points: 1, Category: models.CategoryWord, Icon: "BookMarked"},
		{Title: "수요말씀 참석하기", Description: "수요말씀에 참석하세요", Points: 1, Category: models.CategoryWord, Icon: "Church"},

		{Title: "수양회 관련 기도부탁 올리기", Description: "수양회 관련 기도부탁을 올려주세요", Points: 1, Category: models.CategoryPrayer, Icon: "HeartHandshake"},
		{Title: "기상 후, 취침 전 기도", Description: "기상 후, 취침 전에 기도하세요", Points: 1, Category: models.CategoryPrayer, Icon: "Sunrise"},
		{Title: "각종 중보기도 및 전도 기도", Description: "기도부탁 명단, 전도하시는 형제/자매님, 교제에서 멀어진 형제/자매님, 전도인, 자신의 입술과 전도의 문이 열리길 기도 (통합)", Points: 2, Category: models.CategoryPrayer, Icon: "Heart"},

		{Title: "토요교제 참석하기", Description: "토요교제에 참석하세요", Points: 1, Category: models.CategoryFellowship, Icon: "Users"},
		{Title: "교제 전 형제, 자매와 만나서 함께 교제 참석하기", Description: "교제 전에 형제, 자매와 만나서 함께 교제에 참석하세요", Points: 1, Category: models.CategoryFellowship, Icon: "Handshake"},
		{Title: "안나오는 형제, 자매에게 연락하기", Description: "안나오는 형제, 자매에게 연락하세요", Points: 1, Category: models.CategoryFellowship, Icon: "Phone"},
		{Title: "형제, 자매에게 선물주기", Description: "형제, 자매에게 선물을 주세요", Points: 2, Category: models.CategoryFellowship, Icon: "Gift"},
		{Title: "형제, 자매와 교제하기", Description: "형제, 자매와 교제하세요", Points: 2, Category: models.CategoryFellowship, Icon: "MessageCircle"},
		{Title: "교제 소식 밴드에 올리기", Description: "교제 소식을 밴드에 올려주세요", Points: 1, Category: models.CategoryFellowship, Icon: "MessageSquare"},
		{Title: "부서 활동 및 식당 봉사에 참여하기", Description: "부서 활동 및 식당 봉사에 참여하세요", Points: 2, Category: models.CategoryFellowship, Icon: "UtensilsCrossed"},

		{Title: "전도대상자에게 선물주기", Description: "전도대상자에게 선물을 주세요", Points: 3, Category: models.CategoryOutreach, Icon: "Gift"},
		{Title: "전도대상자에게 바이블래터 전해주기", Description: "전도대상자에게 바이블래터를 전해주세요", Points: 2, Category: models.CategoryOutreach, Icon: "Book"},
		{Title: "전도대상자에게 안부 묻기", Description: "전도대상자에게 안부를 물어보세요", Points: 2, Category: models.CategoryOutreach, Icon: "Phone"},
		{Title: "전도대상자와 만남 약속 잡기", Description: "전도대상자와 만남 약속을 잡으세요", Points: 3, Category: models.CategoryOutreach, Icon: "Calendar"},
		{Title: "전도대상자와 함께 식사하기", Description: "전도대상자와 함께 식사하세요", Points: 5, Category: models.CategoryOutreach, Icon: "Utensils"},
		{Title: "수양회 참석 권유하기", Description: "전도대상자에게 수양회 참석을 권유하세요", Points: 10, Category: models.CategoryOutreach, Icon: "UserPlus"},
		{Title: "수양회 참석 확답받기", Description: "전도대상자로부터 수양회 참석 확답을 받으세요", Points: 50, Category: models.CategoryOutreach, Icon: "CheckCircle2"},
	}
}

// SeedMissions inserts DefaultMissions when the missions table is empty and
// returns how many rows were created. A non-empty catalog is left untouched.
func SeedMissions(conn *gorm.DB) (int, error) {
	var count int64
	if err := conn.Model(&models.Mission{}).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	missions := DefaultMissions()
	if err := conn.Create(&missions).Error; err != nil {
		return 0, err
	}
	return len(missions), nil
}
