package config

import (
	"encoding/xml"
	"fmt"
	"os"
)

var MainRouter string
var DSN string
var Dbname string
var DataDir string
var FontPath string
var TileCacheSize int
var MainConfig Config

type Config struct {
	XMLName       xml.Name `xml:"config"`
	MainRouter    string   `xml:"MainRouter"`
	Dbname        string   `xml:"dbname"`
	Host          string   `xml:"host"`
	Port          string   `xml:"port"`
	Username      string   `xml:"user"`
	Password      string   `xml:"password"`
	DataDir       string   `xml:"DataDir"`
	FontPath      string   `xml:"FontPath"`
	TileCacheSize int      `xml:"TileCacheSize"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err != nil {
		fmt.Println("Error  opening  file:", err)
		applyDefaults()
		return
	}
	defer xmlFile.Close()

	xmlDecoder := xml.NewDecoder(xmlFile)
	err = xmlDecoder.Decode(&MainConfig)
	if err != nil {
		fmt.Println("Error  decoding  XML:", err)
		applyDefaults()
		return
	}
	MainRouter = MainConfig.MainRouter
	Dbname = MainConfig.Dbname
	DataDir = MainConfig.DataDir
	FontPath = MainConfig.FontPath
	TileCacheSize = MainConfig.TileCacheSize
	applyDefaults()

	// 未配置主库连接时留空DSN，走本地sqlite
	if MainConfig.Host != "" {
		DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC", MainConfig.Host, MainConfig.Username, MainConfig.Password, MainConfig.Dbname, MainConfig.Port)
	}
}

func applyDefaults() {
	if MainRouter == "" {
		MainRouter = "0.0.0.0:8426"
	}
	if DataDir == "" {
		DataDir = "./GeoTopoData"
	}
	if TileCacheSize <= 0 {
		TileCacheSize = 1024
	}
}
